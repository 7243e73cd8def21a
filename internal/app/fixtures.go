package app

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"meddir/internal/domain"
)

// FixtureProblem is one seed record that would be rejected by the write path.
type FixtureProblem struct {
	Kind string `json:"kind" yaml:"kind"` // institution | review | news
	ID   string `json:"id" yaml:"id"`
	Err  string `json:"error" yaml:"error"`
}

// CheckFixtures validates every record of fx with at most workers checks in flight.
// Reviews must reference a known institution and carry a 1..5 rating. Problems are
// returned in input order.
func CheckFixtures(ctx context.Context, fx domain.Fixtures, workers int) ([]FixtureProblem, error) {
	if workers <= 0 {
		workers = 4
	}
	known := make(map[string]bool, len(fx.Institutions))
	for _, inst := range fx.Institutions {
		known[inst.ID] = true
	}

	type job struct {
		kind, id string
		check    func() error
	}
	var jobs []job
	seen := map[string]bool{}
	dup := func(kind, id string) func() error {
		if id == "" {
			return nil
		}
		if seen[kind+"/"+id] {
			return func() error { return domain.Conflict("duplicate %s id %s", kind, id) }
		}
		seen[kind+"/"+id] = true
		return nil
	}
	for _, inst := range fx.Institutions {
		if d := dup("institution", inst.ID); d != nil {
			jobs = append(jobs, job{"institution", inst.ID, d})
		}
		jobs = append(jobs, job{"institution", inst.ID, func() error { return checkInstitution(inst) }})
	}
	for _, r := range fx.Reviews {
		if d := dup("review", r.ID); d != nil {
			jobs = append(jobs, job{"review", r.ID, d})
		}
		jobs = append(jobs, job{"review", r.ID, func() error {
			if !known[r.InstitutionID] {
				return domain.NotFound("institution %s", r.InstitutionID)
			}
			err := validate.Struct(domain.NewReview{
				InstitutionID: r.InstitutionID,
				AuthorName:    r.AuthorName,
				Rating:        r.Rating,
				Comment:       r.Comment,
			})
			if err != nil {
				return validationError(err)
			}
			return nil
		}})
	}
	for _, n := range fx.News {
		if d := dup("news", n.ID); d != nil {
			jobs = append(jobs, job{"news", n.ID, d})
		}
		jobs = append(jobs, job{"news", n.ID, func() error { return checkNews(n) }})
	}

	errs := make([]error, len(jobs))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	for i, j := range jobs {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			errs[i] = j.check()
		}()
	}
	wg.Wait()

	var out []FixtureProblem
	for i, err := range errs {
		if err != nil {
			out = append(out, FixtureProblem{Kind: jobs[i].kind, ID: jobs[i].id, Err: err.Error()})
		}
	}
	return out, nil
}
