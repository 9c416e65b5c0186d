package mirror

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

const (
	promptErrorTemplateConstant = "prompt failed: %w"
)

// ConfigurationPrompter gathers configuration values interactively.
type ConfigurationPrompter interface {
	PromptInput(promptMessage string, defaultValue string) (string, error)
	PromptSecret(promptMessage string) (string, error)
	PromptSelect(promptMessage string, selectionOptions []string, defaultValue string) (string, error)
	PromptConfirm(promptMessage string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements ConfigurationPrompter on top of the survey library.
type SurveyPrompter struct{}

// NewSurveyPrompter constructs a terminal-backed prompter.
func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

// PromptInput asks for a free-form value.
func (prompter *SurveyPrompter) PromptInput(promptMessage string, defaultValue string) (string, error) {
	prompt := &survey.Input{
		Message: promptMessage,
		Default: defaultValue,
	}

	var answer string
	if askError := survey.AskOne(prompt, &answer); askError != nil {
		return "", fmt.Errorf(promptErrorTemplateConstant, askError)
	}

	return answer, nil
}

// PromptSecret asks for a value without echoing it.
func (prompter *SurveyPrompter) PromptSecret(promptMessage string) (string, error) {
	prompt := &survey.Password{
		Message: promptMessage,
	}

	var answer string
	if askError := survey.AskOne(prompt, &answer); askError != nil {
		return "", fmt.Errorf(promptErrorTemplateConstant, askError)
	}

	return answer, nil
}

// PromptSelect asks for one value from a fixed set.
func (prompter *SurveyPrompter) PromptSelect(promptMessage string, selectionOptions []string, defaultValue string) (string, error) {
	prompt := &survey.Select{
		Message: promptMessage,
		Options: selectionOptions,
		Default: defaultValue,
	}

	var answer string
	if askError := survey.AskOne(prompt, &answer); askError != nil {
		return "", fmt.Errorf(promptErrorTemplateConstant, askError)
	}

	return answer, nil
}

// PromptConfirm asks a yes/no question.
func (prompter *SurveyPrompter) PromptConfirm(promptMessage string, defaultValue bool) (bool, error) {
	prompt := &survey.Confirm{
		Message: promptMessage,
		Default: defaultValue,
	}

	var answer bool
	if askError := survey.AskOne(prompt, &answer); askError != nil {
		return false, fmt.Errorf(promptErrorTemplateConstant, askError)
	}

	return answer, nil
}
