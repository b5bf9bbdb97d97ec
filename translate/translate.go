// Package translate formats user-visible messages for the host locale.
package translate

import (
	"log/slog"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when the host reports no locale.
const DefaultLocale = "en-US"

var (
	printerOnce sync.Once
	printer     *message.Printer
)

// Printer returns the shared message printer, resolving the host
// locale on first use.
func Printer() *message.Printer {
	printerOnce.Do(func() {
		locales, err := locale.GetLocales()
		if err != nil {
			slog.Debug("translate: locale", "error", err)
		}

		if len(locales) == 0 {
			locales = []string{DefaultLocale}
		}

		printer = message.NewPrinter(message.MatchLanguage(locales...))
	})

	return printer
}

// For returns a printer for an explicit BCP 47 tag, ignoring the host.
func For(tag string) *message.Printer {
	return message.NewPrinter(language.Make(tag))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return Printer().Sprintf(key, args...)
}
