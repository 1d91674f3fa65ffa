package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// validate is the shared schema validator for content documents.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// course ids and slugs: lowercase letters, digits and hyphens only
	_ = v.RegisterValidation("lowercase_slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// schemaErrors flattens validator output to "field: constraint" strings for
// the validation report.
func schemaErrors(err error) []string {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// drop the root struct name from the namespace
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s: failed %q (param %s)", path, fe.Tag(), fe.Param()))
		} else {
			out = append(out, fmt.Sprintf("%s: failed %q", path, fe.Tag()))
		}
	}
	return out
}
