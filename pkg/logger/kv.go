package logger

import (
	"fmt"

	"github.com/rs/zerolog"
)

// KV adapts a zerolog.Logger to the key/value Logger interface accepted by
// storefront.ClientOptions.
type KV struct {
	log zerolog.Logger
}

// NewKV wraps l.
func NewKV(l zerolog.Logger) *KV {
	return &KV{log: l}
}

func (k *KV) Debug(msg string, keysAndValues ...interface{}) {
	k.emit(k.log.Debug(), msg, keysAndValues)
}

func (k *KV) Info(msg string, keysAndValues ...interface{}) {
	k.emit(k.log.Info(), msg, keysAndValues)
}

func (k *KV) Warn(msg string, keysAndValues ...interface{}) {
	k.emit(k.log.Warn(), msg, keysAndValues)
}

func (k *KV) Error(msg string, keysAndValues ...interface{}) {
	k.emit(k.log.Error(), msg, keysAndValues)
}

func (k *KV) emit(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	if event == nil {
		return
	}

	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		// odd trailing key
		if i+1 >= len(keysAndValues) {
			event = event.Str(key, "(MISSING)")
			break
		}

		switch v := keysAndValues[i+1].(type) {
		case error:
			event = event.AnErr(key, v)
		default:
			event = event.Interface(key, v)
		}
	}

	event.Msg(msg)
}
