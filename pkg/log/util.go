package log

import (
	"fmt"

	"go.uber.org/zap"
)

// toFields turns loosely typed logging arguments into zap fields.
//
// zap.Field values pass through, a bare error becomes zap.Error, and the
// rest is consumed as key/value pairs. A trailing key without a value and
// non-string keys are kept under synthetic keys so nothing is dropped.
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case zap.Field:
			fields = append(fields, v)
			i++
			continue
		case error:
			fields = append(fields, zap.Error(v))
			i++
			continue
		}

		if i == len(args)-1 {
			fields = append(fields, zap.Any(fmt.Sprintf("arg#%d", i), args[i]))
			break
		}

		key, val := args[i], args[i+1]
		i += 2

		name, ok := key.(string)
		if !ok {
			fields = append(fields, zap.Any(fmt.Sprintf("badkey#%d", i-2), map[string]any{"key": key, "value": val}))
			continue
		}
		fields = append(fields, zap.Any(name, val))
	}

	return fields
}
