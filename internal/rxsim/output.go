package rxsim

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joeycumines/go-reactive/rx"
	"github.com/joeycumines/go-reactive/rxtest"
	"github.com/joeycumines/go-utilpkg/jsonenc"
	"github.com/spf13/pflag"
)

// Format selects how a Result is written.
type Format string

const (
	FormatText Format = `text`
	FormatJSON Format = `json`
)

var _ pflag.Value = (*Format)(nil)

func (f *Format) String() string { return string(*f) }

func (f *Format) Set(s string) error {
	switch Format(s) {
	case FormatText, FormatJSON:
		*f = Format(s)
		return nil
	default:
		return fmt.Errorf(`must be one of %q or %q`, FormatText, FormatJSON)
	}
}

func (f *Format) Type() string { return `format` }

// Write encodes res to w, in the receiver's format.
func (f Format) Write(w io.Writer, res *Result) error {
	var b []byte
	switch f {
	case FormatJSON:
		b = appendJSON(nil, res)
	default:
		b = []byte(formatText(res))
	}
	_, err := w.Write(b)
	return err
}

func formatText(res *Result) string {
	var b strings.Builder
	b.WriteString("messages:\n")
	for _, m := range res.Messages {
		b.WriteString(`  `)
		b.WriteString(m.String())
		b.WriteByte('\n')
	}
	b.WriteString("subscriptions:\n")
	for _, s := range res.Subscriptions {
		b.WriteString(`  `)
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "clock: %d\n", res.Clock)
	return b.String()
}

func appendJSON(dst []byte, res *Result) []byte {
	dst = append(dst, `{"messages":[`...)
	for i, m := range res.Messages {
		if i != 0 {
			dst = append(dst, ',')
		}
		dst = appendMessage(dst, m)
	}
	dst = append(dst, `],"subscriptions":[`...)
	for i, s := range res.Subscriptions {
		if i != 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, `{"subscribe":`...)
		dst = strconv.AppendInt(dst, s.Subscribe, 10)
		dst = append(dst, `,"unsubscribe":`...)
		if s.Unsubscribe == rxtest.Infinite {
			dst = append(dst, `null`...)
		} else {
			dst = strconv.AppendInt(dst, s.Unsubscribe, 10)
		}
		dst = append(dst, '}')
	}
	dst = append(dst, `],"clock":`...)
	dst = strconv.AppendInt(dst, res.Clock, 10)
	return append(dst, "}\n"...)
}

func appendMessage(dst []byte, m rxtest.Recorded[int]) []byte {
	dst = append(dst, `{"time":`...)
	dst = strconv.AppendInt(dst, m.Time, 10)
	dst = append(dst, `,"kind":`...)
	dst = jsonenc.AppendString(dst, m.Notification.Kind.String())
	switch m.Notification.Kind {
	case rx.KindNext:
		dst = append(dst, `,"value":`...)
		dst = strconv.AppendInt(dst, int64(m.Notification.Value), 10)
	case rx.KindError:
		dst = append(dst, `,"error":`...)
		dst = jsonenc.AppendString(dst, m.Notification.Err.Error())
	}
	return append(dst, '}')
}
