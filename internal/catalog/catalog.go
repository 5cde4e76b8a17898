// Package catalog describes which verification checks exist, how they draw on
// quota, and what each billing tier of a check type grants.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/polkiloo/verigate/internal/domain/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const (
	defaultSuccessField = "status"
	defaultSuccessValue = "success"
)

// Phase is one provider step of a deferred check.
type Phase struct {
	Operation      string   `yaml:"operation"`
	RequiredFields []string `yaml:"required_fields"`
}

// Check is a declarative description of one verification endpoint.
type Check struct {
	Name           string   `yaml:"name"`
	CheckType      string   `yaml:"check_type"`
	FallbackTypes  []string `yaml:"fallback_types"`
	RequiredFields []string `yaml:"required_fields"`
	Consent        bool     `yaml:"consent"`
	Operation      string   `yaml:"operation"`
	Prepare        *Phase   `yaml:"prepare"`
	Confirm        *Phase   `yaml:"confirm"`
	SuccessField   string   `yaml:"success_field"`
	SuccessValue   string   `yaml:"success_value"`
}

// Deferred reports whether the check runs as prepare then confirm.
func (c Check) Deferred() bool {
	return c.Prepare != nil
}

// Spec returns the lifecycle parameters of a single-step check.
func (c Check) Spec() model.CheckSpec {
	return c.spec(c.RequiredFields)
}

// PrepareSpec returns the lifecycle parameters of the prepare phase.
func (c Check) PrepareSpec() model.CheckSpec {
	return c.spec(c.Prepare.RequiredFields)
}

// ConfirmSpec returns the lifecycle parameters of the confirm phase.
func (c Check) ConfirmSpec() model.CheckSpec {
	return c.spec(c.Confirm.RequiredFields)
}

func (c Check) spec(required []string) model.CheckSpec {
	return model.CheckSpec{
		Name:           c.Name,
		CheckType:      c.CheckType,
		FallbackTypes:  slices.Clone(c.FallbackTypes),
		RequiredFields: slices.Clone(required),
		RequireConsent: c.Consent,
	}
}

// Succeeded returns the predicate a confirm result must satisfy before quota is spent.
func (c Check) Succeeded() model.SuccessPredicate {
	return model.FieldEquals(c.SuccessField, c.SuccessValue)
}

// Tier is the grant of one billing period.
type Tier struct {
	Count        int   `yaml:"count"`
	ValidityDays int   `yaml:"validity_days"`
	Price        int64 `yaml:"price"`
}

type document struct {
	Pricing map[string]map[model.BillingPeriod]Tier `yaml:"pricing"`
	Checks  []Check                                 `yaml:"checks"`
}

// Catalog is an immutable, validated set of checks and pricing tiers.
type Catalog struct {
	checks  []Check
	byName  map[string]int
	pricing map[string]map[model.BillingPeriod]Tier
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		byName:  make(map[string]int, len(doc.Checks)),
		pricing: make(map[string]map[model.BillingPeriod]Tier, len(doc.Pricing)),
	}

	for checkType, tiers := range doc.Pricing {
		normalized := make(map[model.BillingPeriod]Tier, len(tiers))
		for period, tier := range tiers {
			if !period.Valid() {
				return nil, fmt.Errorf("pricing %s: unknown billing period %q", checkType, period)
			}
			if tier.Count <= 0 {
				return nil, fmt.Errorf("pricing %s/%s: count must be positive", checkType, period)
			}
			if tier.ValidityDays <= 0 {
				tier.ValidityDays = defaultValidityDays(period)
			}
			normalized[period] = tier
		}
		c.pricing[checkType] = normalized
	}

	var errs []error
	for i, check := range doc.Checks {
		if err := c.validate(check); err != nil {
			errs = append(errs, fmt.Errorf("check %d (%s): %w", i, check.Name, err))
			continue
		}
		if check.SuccessField == "" {
			check.SuccessField = defaultSuccessField
		}
		if check.SuccessValue == "" {
			check.SuccessValue = defaultSuccessValue
		}
		c.byName[check.Name] = len(c.checks)
		c.checks = append(c.checks, check)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}

func defaultValidityDays(period model.BillingPeriod) int {
	if period == model.BillingMonthly {
		return 30
	}
	return 365
}

func (c *Catalog) validate(check Check) error {
	if check.Name == "" {
		return errors.New("name is required")
	}
	if _, dup := c.byName[check.Name]; dup {
		return errors.New("duplicate name")
	}
	if _, ok := c.pricing[check.CheckType]; !ok {
		return fmt.Errorf("check type %q has no pricing", check.CheckType)
	}
	for _, fb := range check.FallbackTypes {
		if _, ok := c.pricing[fb]; !ok {
			return fmt.Errorf("fallback type %q has no pricing", fb)
		}
		if fb == check.CheckType {
			return fmt.Errorf("fallback type %q repeats the primary type", fb)
		}
	}

	switch {
	case check.Prepare == nil && check.Confirm == nil:
		if check.Operation == "" {
			return errors.New("operation is required")
		}
	case check.Prepare == nil || check.Confirm == nil:
		return errors.New("deferred checks need both prepare and confirm")
	case check.Prepare.Operation == "" || check.Confirm.Operation == "":
		return errors.New("deferred phases need an operation")
	}
	return nil
}

// Lookup finds a check by name.
func (c *Catalog) Lookup(name string) (Check, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Check{}, false
	}
	return c.checks[i], true
}

// Checks lists checks in declaration order.
func (c *Catalog) Checks() []Check {
	return slices.Clone(c.checks)
}

// QuotaPlan returns the grant for checkType under period.
func (c *Catalog) QuotaPlan(checkType string, period model.BillingPeriod) (model.QuotaPlan, bool) {
	tier, ok := c.pricing[checkType][period]
	if !ok {
		return model.QuotaPlan{}, false
	}
	return model.QuotaPlan{Count: tier.Count, ValidityDays: tier.ValidityDays, Price: tier.Price}, true
}
