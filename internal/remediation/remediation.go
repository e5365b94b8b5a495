// Package remediation sequences a run: it obtains the API key, fetches forms,
// plans and confirms the change, patches each candidate and reports.
package remediation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rflorenc/formpatch/internal/credentials"
	"github.com/rflorenc/formpatch/internal/models"
	"github.com/rflorenc/formpatch/internal/platform"
)

// UI is the interactive surface a run reads answers from and reports to.
type UI interface {
	credentials.Prompter
	platform.Reporter
	Confirm(question string) (bool, error)
	Println(a ...interface{})
	Printf(format string, a ...interface{})
	Heading(title string)
}

// Runner wires the stages of a run together. NewForms is only called with a
// non-empty token.
type Runner struct {
	UI          UI
	Credentials *credentials.Store
	NewForms    func(token string) platform.FormsAPI
	Logger      *zap.Logger
}

// Execute runs once and never fails: errors and panics from any stage are
// reported as a fatal message and the returned run is marked failed.
func (r *Runner) Execute(ctx context.Context) (run *models.Run) {
	defer func() {
		if rec := recover(); rec != nil {
			if run == nil {
				run = models.NewRun()
			}
			err := fmt.Errorf("%v", rec)
			r.fatal(run, err)
		}
	}()

	run, err := r.Run(ctx)
	if err != nil {
		if run == nil {
			run = models.NewRun()
		}
		r.fatal(run, err)
	}
	return run
}

func (r *Runner) fatal(run *models.Run, err error) {
	r.logger().Error("run failed", zap.String("run_id", run.ID), zap.Error(err))
	run.Fail(err.Error())
	r.UI.Println()
	r.UI.Failure("An unexpected error occurred: " + err.Error())
	r.UI.Println("The run has been stopped.")
}

// Run performs one pass. Remote failures are reported and end the run
// quietly; only unexpected errors are returned.
func (r *Runner) Run(ctx context.Context) (*models.Run, error) {
	run := models.NewRun()
	log := r.logger().With(zap.String("run_id", run.ID))

	cred, err := r.Credentials.LoadOrCreate(r.UI)
	if errors.Is(err, credentials.ErrSave) {
		r.UI.Println("No usable API key. Stopping.")
		run.Abort()
		return run, nil
	}
	if err != nil {
		return run, err
	}
	if cred.APIKey == "" {
		r.UI.Println("No usable API key. Stopping.")
		run.Abort()
		return run, nil
	}
	forms := r.NewForms(cred.APIKey)

	fetched, err := r.fetch(ctx, run, forms)
	if err != nil {
		return run, err
	}
	run.Fetched = len(fetched)
	log.Debug("forms fetched", zap.String("mode", run.Mode), zap.Int("count", run.Fetched))
	if run.Status == models.StatusFailed {
		r.UI.Println("No forms fetched: the request failed. See the messages above.")
		return run, nil
	}
	if len(fetched) == 0 {
		r.UI.Println("No forms found. Nothing to do.")
		run.Abort()
		return run, nil
	}
	r.UI.Printf("Fetched %d form(s).", len(fetched))

	plan, err := Preview(fetched, r.UI)
	if err != nil {
		return run, err
	}
	run.AlreadyEnabled = plan.AlreadyEnabled
	run.Candidates = len(plan.Candidates)

	selected := plan.Selected()
	if len(selected) == 0 {
		run.Abort()
		r.summarize(run)
		return run, nil
	}

	r.UI.Heading("Updating forms")
	for _, f := range selected {
		if err := forms.Update(ctx, f.ID()); err != nil {
			log.Warn("form update failed", zap.String("form_id", f.ID()), zap.Error(err))
			run.RecordFailed(f.Name())
			continue
		}
		log.Debug("form updated", zap.String("form_id", f.ID()))
		r.UI.Success("Updated " + f.Label())
		run.RecordUpdated(f.Name())
	}
	run.Complete()
	r.summarize(run)
	return run, nil
}

// fetch asks for the mode and loads the forms for it. A failed remote call
// marks the run failed instead of returning an error.
func (r *Runner) fetch(ctx context.Context, run *models.Run, forms platform.FormsAPI) ([]models.Form, error) {
	single, err := r.UI.YesNo("Run in test mode on a single form?")
	if err != nil {
		return nil, err
	}

	if !single {
		run.Mode = models.ModeBulk
		r.UI.Heading("Fetching forms")
		fetched, err := forms.ListAll(ctx)
		if err != nil {
			run.Fail(err.Error())
			return nil, nil
		}
		return fetched, nil
	}

	run.Mode = models.ModeSingle
	var id string
	for id == "" {
		if id, err = r.UI.Text("Enter the form ID:"); err != nil {
			return nil, err
		}
	}
	r.UI.Heading("Fetching form " + id)
	form, err := forms.Get(ctx, id)
	if err != nil {
		run.Fail(err.Error())
		return nil, nil
	}
	return []models.Form{form}, nil
}

func (r *Runner) summarize(run *models.Run) {
	r.UI.Heading("Summary")
	r.UI.Printf("Run %s (%s): %d fetched, %d already enabled, %d candidate(s).",
		run.ID, run.Mode, run.Fetched, run.AlreadyEnabled, run.Candidates)
	if len(run.Updated) == 0 {
		r.UI.Println("No forms were updated.")
	} else {
		r.UI.Printf("Updated %d form(s):", len(run.Updated))
		for _, name := range run.Updated {
			r.UI.Println("  - " + name)
		}
	}
	if len(run.Failed) > 0 {
		r.UI.Printf("Failed to update %d form(s):", len(run.Failed))
		for _, name := range run.Failed {
			r.UI.Println("  - " + name)
		}
	}
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
