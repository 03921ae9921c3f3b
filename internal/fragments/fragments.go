// Package fragments holds the static HTML served for the controller and
// workflow regions of the admin screen.
package fragments

const controller = `<div class="goob-controller">
    <button type="button" class="button goob-print" disabled title="Printing is not implemented yet">Print</button>
    <p class="goob-notice">Printing is not implemented yet.</p>
</div>`

const workflow = `<div class="goob-workflow"></div>`

// Controller returns the controller region markup.
func Controller() string {
	return controller
}

// Workflow returns the (empty) workflow region container.
func Workflow() string {
	return workflow
}
