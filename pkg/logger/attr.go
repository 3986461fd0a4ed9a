package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Service records a catalog service name under the key "saas_service".
func Service(name string) slog.Attr {
	return slog.String("saas_service", name)
}

// Version records a pricing version under the key "pricing_version".
func Version(version string) slog.Attr {
	return slog.String("pricing_version", version)
}

// ContractID records a contract identifier under the key "contract_id".
func ContractID(id string) slog.Attr {
	return slog.String("contract_id", id)
}

// UserID records the subscriber identifier under the key "user_id".
// If id is empty, it returns an empty Attr.
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// Role records a role name under the key "role".
// If role is nil, it returns an empty Attr.
func Role(role any) slog.Attr {
	if role == nil {
		return slog.Attr{}
	}
	return slog.Any("role", role)
}

// Operation records the catalog or contract operation under the key "operation".
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// ErrorKey records an error translation key under the key "error_key".
func ErrorKey(key string) slog.Attr {
	return slog.String("error_key", key)
}

// Count records a number of affected records under the given key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Duration records elapsed time under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
