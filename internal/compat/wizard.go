// Package compat drives the device-compatibility checker: pick a brand,
// pick a model, see the result.
package compat

import (
	"errors"
	"slices"
)

var (
	ErrUnknownBrand = errors.New("brand not supported")
	ErrUnknownModel = errors.New("model not listed for brand")
	ErrNoBrand      = errors.New("choose a brand first")
)

type Step string

const (
	StepChooseBrand Step = "choose_brand"
	StepChooseModel Step = "choose_model"
	StepResult      Step = "result"
)

// EmptyModelsMessage is shown when a brand has no eSIM-capable models.
const EmptyModelsMessage = "We have no eSIM-compatible models on record for this brand yet"

type Result struct {
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	Compatible bool   `json:"compatible"`
}

// Brands lists the supported brands in display order.
func Brands() []string { return slices.Clone(brands) }

// Models lists a brand's models. Unknown brands have none.
func Models(brand string) []string { return slices.Clone(models[brand]) }

// Wizard holds the two selections; the current step follows from them.
type Wizard struct {
	brand string
	model string
}

func (w *Wizard) Step() Step {
	switch {
	case w.brand == "":
		return StepChooseBrand
	case w.model == "":
		return StepChooseModel
	default:
		return StepResult
	}
}

func (w *Wizard) Brand() string { return w.brand }
func (w *Wizard) Model() string { return w.model }

// SelectBrand moves to ChooseModel. Changing brand drops the model.
func (w *Wizard) SelectBrand(brand string) error {
	if _, ok := models[brand]; !ok {
		return ErrUnknownBrand
	}
	if brand != w.brand {
		w.model = ""
	}
	w.brand = brand
	return nil
}

func (w *Wizard) SelectModel(model string) error {
	if w.brand == "" {
		return ErrNoBrand
	}
	if !slices.Contains(models[w.brand], model) {
		return ErrUnknownModel
	}
	w.model = model
	return nil
}

// ClearModel goes back to ChooseModel.
func (w *Wizard) ClearModel() { w.model = "" }

// ClearBrand goes back to ChooseBrand.
func (w *Wizard) ClearBrand() {
	w.brand = ""
	w.model = ""
}

// Models lists the options for the selected brand.
func (w *Wizard) Models() []string { return Models(w.brand) }

func (w *Wizard) Result() (Result, bool) {
	if w.Step() != StepResult {
		return Result{}, false
	}
	return Result{Brand: w.brand, Model: w.model, Compatible: true}, true
}
