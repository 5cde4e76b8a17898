package test

import "sync"

// RecorderStub collects orchestration outcomes.
type RecorderStub struct {
	mu       sync.Mutex
	Outcomes []string
	Commits  map[string][2]int
	Expired  int64
}

func (r *RecorderStub) ObserveVerification(check, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outcomes = append(r.Outcomes, check+":"+outcome)
}

// ObserveCommit counts successes in slot 0 and exhaustions in slot 1.
func (r *RecorderStub) ObserveCommit(checkType string, committed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Commits == nil {
		r.Commits = make(map[string][2]int)
	}
	c := r.Commits[checkType]
	if committed {
		c[0]++
	} else {
		c[1]++
	}
	r.Commits[checkType] = c
}

func (r *RecorderStub) ObserveExpired(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Expired += n
}

// Last returns the most recent outcome or "".
func (r *RecorderStub) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Outcomes) == 0 {
		return ""
	}
	return r.Outcomes[len(r.Outcomes)-1]
}
