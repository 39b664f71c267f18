package schedule

import (
	"errors"
	"regexp"
	"strings"

	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/go-playground/validator/v10"
)

// ErrValidation is wrapped by every ValidationError
var ErrValidation = errors.New("validation failed")

// ValidationError lists the problems found in a candidate
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ItemCandidate is user input for a new schedule item
type ItemCandidate struct {
	Time     string          `validate:"required,hhmm"`
	Activity string          `validate:"required"`
	Category models.Category `validate:"omitempty,oneof=study break lunch dinner"`
	Duration string          `validate:"required"`
}

type scheduleCandidate struct {
	Name string `validate:"required"`
	Days []int  `validate:"min=1,dive,min=0,max=6"`
}

var (
	validate  *validator.Validate
	hhmmRegex = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

var validationMessages = map[string]string{
	"required": "is required",
	"hhmm":     "must be a HH:MM time between 00:00 and 23:59",
	"oneof":    "must be one of: ",
}

func init() {
	validate = validator.New()
	validate.RegisterValidation("hhmm", validateHHMM)
}

func validateHHMM(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !hhmmRegex.MatchString(value) {
		return false
	}
	_, err := models.ClockMinutes(value)
	return err == nil
}

// ValidateItem checks a candidate and returns the normalized item without an ID
func ValidateItem(candidate ItemCandidate) (models.ScheduleItem, error) {
	candidate.Time = strings.TrimSpace(candidate.Time)
	candidate.Activity = strings.TrimSpace(candidate.Activity)
	candidate.Duration = strings.TrimSpace(candidate.Duration)
	candidate.Category = models.Category(strings.ToLower(strings.TrimSpace(string(candidate.Category))))

	if err := validate.Struct(candidate); err != nil {
		return models.ScheduleItem{}, toValidationError(err)
	}

	if candidate.Category == "" {
		candidate.Category = models.CategoryStudy
	}

	return models.ScheduleItem{
		Time:     candidate.Time,
		Activity: candidate.Activity,
		Category: candidate.Category,
		Duration: candidate.Duration,
	}, nil
}

// ValidateSchedule checks the fields a custom schedule needs before it can be saved
func ValidateSchedule(s models.CustomSchedule) error {
	var problems []string

	err := validate.Struct(scheduleCandidate{Name: strings.TrimSpace(s.Name), Days: s.Days})
	if err != nil {
		problems = append(problems, toValidationError(err).Problems...)
	}

	seen := make(map[string]bool, len(s.Items))
	for _, item := range s.Items {
		switch {
		case item.ID == "":
			problems = append(problems, "item "+item.Time+": id is required")
		case seen[item.ID]:
			problems = append(problems, "item "+item.ID+": duplicate id")
		}
		seen[item.ID] = true

		_, err := ValidateItem(candidateFor(item))
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					problems = append(problems, "item "+item.ID+": "+p)
				}
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// NormalizeSchedule validates s and returns the form that gets committed: trimmed
// name, ascending unique days, and every item replaced by its validated form
// (trimmed, category defaulted) sorted by time.
func NormalizeSchedule(s models.CustomSchedule) (models.CustomSchedule, error) {
	if err := ValidateSchedule(s); err != nil {
		return models.CustomSchedule{}, err
	}

	out := s.Clone()
	out.Name = strings.TrimSpace(out.Name)
	out.Days = normalizeDays(out.Days)
	for i, item := range out.Items {
		valid, err := ValidateItem(candidateFor(item))
		if err != nil {
			return models.CustomSchedule{}, err
		}
		valid.ID = item.ID
		out.Items[i] = valid
	}
	sortItems(out.Items)
	return out, nil
}

func candidateFor(item models.ScheduleItem) ItemCandidate {
	return ItemCandidate{
		Time:     item.Time,
		Activity: item.Activity,
		Category: item.Category,
		Duration: item.Duration,
	}
}

func toValidationError(err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Problems: []string{err.Error()}}
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	if strings.HasPrefix(field, "days") {
		if fe.Tag() == "min" && field == "days" {
			return "days must contain at least one weekday"
		}
		return field + " must be a weekday index between 0 and 6"
	}

	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		msg = "is invalid"
	}
	if fe.Tag() == "oneof" {
		msg += strings.Join(strings.Fields(fe.Param()), ", ")
	}
	return field + " " + msg
}
