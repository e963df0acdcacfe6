package apperror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// FieldMessages flattens a gin binding error into one human-readable message
// per failing field, for the errors list of the response envelope.
func FieldMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid request body"}
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := formatFieldName(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "min":
			msgs = append(msgs, field+" must be at least "+e.Param()+" characters long")
		case "max":
			msgs = append(msgs, field+" must be at most "+e.Param()+" characters long")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+strings.ReplaceAll(e.Param(), " ", ", "))
		case "gt":
			msgs = append(msgs, field+" must be greater than "+e.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return msgs
}
