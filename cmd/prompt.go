package cmd

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

const (
	PromptYes  = "Yes"
	PromptNo   = "No"
	PromptBack = "back"
)

var errInputRequired = errors.New("input is required but prompting is disabled")

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(what + " is required")
		}
		return nil
	}
}

// ask returns value when set, otherwise prompts for it.
func (e *env) ask(label, value string, validate promptui.ValidateFunc) (string, error) {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}
	if !e.interactive {
		return "", errors.New(strings.ToLower(label) + ": " + errInputRequired.Error())
	}

	p := promptui.Prompt{Label: label, Validate: validate}
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// edit prompts with an editable default value.
func (e *env) edit(label, value string) (string, error) {
	if !e.interactive {
		return value, nil
	}

	p := promptui.Prompt{Label: label, Default: value, AllowEdit: true}
	return p.Run()
}

func (e *env) askSecret(label string) (string, error) {
	if !e.interactive {
		return "", errors.New(strings.ToLower(label) + ": " + errInputRequired.Error())
	}

	p := promptui.Prompt{Label: label, Mask: '*', Validate: required(strings.ToLower(label))}
	return p.Run()
}

// confirm asks a yes/no question unless assumeYes is set.
func (e *env) confirm(label string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !e.interactive {
		return false, errors.New("confirmation required; pass --yes")
	}

	p := promptui.Select{Label: label, Items: []string{PromptYes, PromptNo}}
	_, choice, err := p.Run()
	if err != nil {
		return false, err
	}
	return choice == PromptYes, nil
}

func (e *env) choose(label string, items []string) (int, string, error) {
	if !e.interactive {
		return -1, "", errors.New(strings.ToLower(label) + ": " + errInputRequired.Error())
	}

	p := promptui.Select{Label: label, Items: items, Size: 10}
	return p.Run()
}
