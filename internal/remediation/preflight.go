package remediation

import (
	"fmt"

	"github.com/rflorenc/formpatch/internal/models"
)

// Plan is the outcome of the filter and confirmation stage.
type Plan struct {
	Candidates     []models.Form
	AlreadyEnabled int
	Approved       bool
}

// Selected returns the forms approved for update, or nil when nothing is to
// be changed.
func (p *Plan) Selected() []models.Form {
	if p == nil || !p.Approved {
		return nil
	}
	return p.Candidates
}

// SelectCandidates returns, in input order, the forms whose
// createNewContactForNewEmail flag is absent or false.
func SelectCandidates(forms []models.Form) []models.Form {
	candidates := []models.Form{}
	for _, f := range forms {
		if !f.FlagEnabled() {
			candidates = append(candidates, f)
		}
	}
	return candidates
}

// Preview selects the candidates and asks for confirmation before any form
// is modified. Declining is not an error.
func Preview(forms []models.Form, ui UI) (*Plan, error) {
	candidates := SelectCandidates(forms)
	plan := &Plan{
		Candidates:     candidates,
		AlreadyEnabled: len(forms) - len(candidates),
	}

	ui.Heading("Checking " + models.FlagCreateNewContact)
	ui.Printf("%d form(s) already enabled, %d form(s) to update.", plan.AlreadyEnabled, len(candidates))
	if len(candidates) == 0 {
		ui.Printf("All forms already have %s enabled. Nothing to do.", models.FlagCreateNewContact)
		return plan, nil
	}

	for _, f := range candidates {
		ui.Println("  - " + f.Label())
	}
	approved, err := ui.Confirm(fmt.Sprintf("Enable %s on %d form(s)?", models.FlagCreateNewContact, len(candidates)))
	if err != nil {
		return nil, err
	}
	plan.Approved = approved
	if !approved {
		ui.Println("Aborted. No forms were modified.")
	}
	return plan, nil
}
