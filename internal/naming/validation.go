package naming

import (
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

const aliasMaxLength = 63

func validateDNS1123Label(name string, maximum int, labelKind string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", labelKind)
	}
	if len(name) > maximum {
		return fmt.Errorf("%s name exceeds %d characters", labelKind, maximum)
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s name: %s", labelKind, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateAlias checks that alias is usable as a fragment file name suffix.
func ValidateAlias(alias string) error {
	if err := validateDNS1123Label(alias, aliasMaxLength, "alias"); err != nil {
		return err
	}
	if strings.Contains(alias, "-") {
		return fmt.Errorf("invalid alias name: %q must not contain '-'", alias)
	}
	return nil
}

// ValidateKind checks that kind looks like a resource Kind (e.g. ConfigMap).
func ValidateKind(kind string) error {
	if kind == "" {
		return fmt.Errorf("kind name must not be empty")
	}
	if strings.ContainsAny(kind, " \t=:|`,") {
		return fmt.Errorf("invalid kind name %q", kind)
	}
	return nil
}
