package catalog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/verigate/internal/config"
	"github.com/polkiloo/verigate/internal/domain/model"
)

func TestEmbeddedCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, c.Checks())

	gstin, ok := c.Lookup("gstin-by-pan")
	require.True(t, ok)
	assert.Equal(t, []string{"gstin", "pan"}, gstin.Spec().Types())
	assert.True(t, gstin.Spec().RequireConsent)
	assert.False(t, gstin.Deferred())

	otp, ok := c.Lookup("aadhaar-otp")
	require.True(t, ok)
	require.True(t, otp.Deferred())
	assert.Equal(t, []string{"id_number"}, otp.PrepareSpec().RequiredFields)
	assert.Equal(t, []string{"request_id", "otp"}, otp.ConfirmSpec().RequiredFields)
	assert.True(t, otp.Succeeded()(model.Result{"status": "success"}))
	assert.False(t, otp.Succeeded()(model.Result{"status": "error"}))

	_, ok = c.Lookup("unknown")
	assert.False(t, ok)
}

func TestEmbeddedCatalogCoversEmploymentLicenseChallanAndCourtChecks(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name     string
		types    []string
		deferred bool
	}{
		{"epfo-uan", []string{"epfo"}, false},
		{"epfo-uan-by-pan", []string{"epfo", "pan"}, false},
		{"epfo-employment-history", []string{"epfo"}, false},
		{"epfo-employer-verify", []string{"epfo"}, false},
		{"epfo-passbook", []string{"epfo"}, true},
		{"driving-license-ocr", []string{"drivinglicense"}, false},
		{"driving-license", []string{"drivinglicense"}, false},
		{"echallan", []string{"echallan", "vehicle"}, false},
		{"ccrv-search", []string{"ccrv"}, false},
		{"ccrv-report", []string{"ccrv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, ok := c.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.types, check.Spec().Types())
			assert.Equal(t, tt.deferred, check.Deferred())
			for _, period := range []model.BillingPeriod{model.BillingOneTime, model.BillingMonthly, model.BillingYearly} {
				_, ok := c.QuotaPlan(check.CheckType, period)
				assert.True(t, ok, "%s has no %s pricing", check.CheckType, period)
			}
		})
	}

	report, _ := c.Lookup("ccrv-report")
	assert.Equal(t, []string{"transaction_id"}, report.ConfirmSpec().RequiredFields)
	assert.True(t, report.Succeeded()(model.Result{"status": "completed"}))
	assert.False(t, report.Succeeded()(model.Result{"status": "success"}))

	ccrv, ok := c.QuotaPlan("ccrv", model.BillingOneTime)
	require.True(t, ok)
	assert.Equal(t, 90, ccrv.ValidityDays)
}

func TestQuotaPlanDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	monthly, ok := c.QuotaPlan("aadhaar", model.BillingMonthly)
	require.True(t, ok)
	assert.Equal(t, 50, monthly.Count)
	assert.Equal(t, 30, monthly.ValidityDays)

	yearly, ok := c.QuotaPlan("aadhaar", model.BillingYearly)
	require.True(t, ok)
	assert.Equal(t, 365, yearly.ValidityDays)

	passport, ok := c.QuotaPlan("passport", model.BillingOneTime)
	require.True(t, ok)
	assert.Equal(t, 90, passport.ValidityDays, "explicit validity is kept")

	_, ok = c.QuotaPlan("aadhaar", "weekly")
	assert.False(t, ok)
	_, ok = c.QuotaPlan("unknown", model.BillingMonthly)
	assert.False(t, ok)
}

func TestSpecIsACopy(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	check, _ := c.Lookup("cin-by-pan")
	spec := check.Spec()
	spec.FallbackTypes[0] = "mutated"

	again, _ := c.Lookup("cin-by-pan")
	assert.Equal(t, "pan", again.FallbackTypes[0])
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	const pricing = `
pricing:
  pan:
    monthly: {count: 10}
`
	cases := map[string]string{
		"bad yaml":          "pricing: [",
		"unknown period":    "pricing:\n  pan:\n    weekly: {count: 1}\n",
		"zero count":        "pricing:\n  pan:\n    monthly: {count: 0}\n",
		"missing name":      pricing + "checks:\n  - check_type: pan\n    operation: /x\n",
		"unpriced type":     pricing + "checks:\n  - name: a\n    check_type: gstin\n    operation: /x\n",
		"unpriced fallback": pricing + "checks:\n  - name: a\n    check_type: pan\n    fallback_types: [gstin]\n    operation: /x\n",
		"self fallback":     pricing + "checks:\n  - name: a\n    check_type: pan\n    fallback_types: [pan]\n    operation: /x\n",
		"no operation":      pricing + "checks:\n  - name: a\n    check_type: pan\n",
		"half deferred":     pricing + "checks:\n  - name: a\n    check_type: pan\n    prepare: {operation: /start}\n",
		"empty phase":       pricing + "checks:\n  - name: a\n    check_type: pan\n    prepare: {operation: /start}\n    confirm: {}\n",
		"duplicate":         pricing + "checks:\n  - name: a\n    check_type: pan\n    operation: /x\n  - name: a\n    check_type: pan\n    operation: /y\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseAppliesSuccessDefaults(t *testing.T) {
	doc := `
pricing:
  aadhaar:
    one-time: {count: 1}
checks:
  - name: otp
    check_type: aadhaar
    prepare: {operation: /start, required_fields: [id]}
    confirm: {operation: /finish, required_fields: [otp]}
`
	c, err := Parse([]byte(doc))
	require.NoError(t, err)
	check, ok := c.Lookup("otp")
	require.True(t, ok)
	assert.Equal(t, "status", check.SuccessField)
	assert.Equal(t, "success", check.SuccessValue)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := "pricing:\n  pan:\n    one-time: {count: 2, price: 100}\nchecks:\n  - name: pan\n    check_type: pan\n    operation: /pan\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Checks(), 1)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNewCatalogProvider(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	c, err := newCatalog(&config.Config{}, logger)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Checks())

	_, err = newCatalog(&config.Config{CatalogFile: "/nonexistent/catalog.yaml"}, logger)
	assert.Error(t, err)
}
