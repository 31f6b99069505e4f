package envmanager

import "fmt"

// Validate reports, without changing anything, which staged variables Save
// would not write as staged: names whose trimmed form is not a valid key, and
// names that collide with another one once trimmed.
// Returns nil or a *ValidationError.
func (m *EnvManager) Validate() error {
	var errs []FieldError
	firstByKey := make(map[string]string)

	for _, name := range m.order {
		key := trim(name)
		if !ValidKey(key) {
			errs = append(errs, FieldError{
				Name:    name,
				Code:    ErrCodeInvalidKeyFormat,
				Message: (&VariableError{Key: key, Err: ErrInvalidKeyFormat}).message(),
			})
			continue
		}

		if first, ok := firstByKey[key]; ok {
			errs = append(errs, FieldError{
				Name:    name,
				Code:    ErrCodeAlreadyExists,
				Message: (&VariableError{Key: key, Err: ErrAlreadyExists}).message() + fmt.Sprintf(" (staged as %q)", first),
			})
			continue
		}
		firstByKey[key] = name
	}

	if len(errs) > 0 {
		return &ValidationError{FieldErrors: errs}
	}
	return nil
}
