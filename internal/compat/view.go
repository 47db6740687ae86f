package compat

import "errors"

// View is what the checker endpoint renders for one (brand, model) query.
type View struct {
	Step    Step     `json:"step"`
	Brand   string   `json:"brand,omitempty"`
	Brands  []string `json:"brands,omitempty"`
	Models  []string `json:"models,omitempty"`
	Result  *Result  `json:"result,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Evaluate replays the selections on a fresh wizard and reports where it
// ends up. Invalid selections stop the replay at the step they failed on.
func Evaluate(brand, model string) View {
	var w Wizard
	if brand == "" {
		return View{Step: StepChooseBrand, Brands: Brands()}
	}
	if err := w.SelectBrand(brand); err != nil {
		return View{Step: StepChooseBrand, Brands: Brands(), Brand: brand, Message: EmptyModelsMessage}
	}

	v := View{Step: StepChooseModel, Brand: brand, Models: w.Models()}
	if model == "" {
		return v
	}
	if err := w.SelectModel(model); err != nil {
		if errors.Is(err, ErrUnknownModel) {
			v.Message = "This model is not in our list of eSIM-compatible devices"
		}
		return v
	}

	res, _ := w.Result()
	return View{Step: StepResult, Brand: brand, Result: &res}
}
