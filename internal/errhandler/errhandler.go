package errhandler

import (
	"errors"
	"unicode"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"

	"github.com/hance08/keabank/internal/apperr"
)

// HandleError prints err for the user and returns the process exit code.
// Coded errors show their code; internal details never reach the terminal.
func HandleError(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, huh.ErrUserAborted) {
		pterm.Warning.Println("Operation Cancelled")
		return 0
	}

	pterm.Error.Println(Message(err))
	return 1
}

// Message renders err as "[CODE] message" for coded errors. INTERNAL never
// shows the wrapped cause.
func Message(err error) string {
	if !apperr.Coded(err) {
		return capitalize(err.Error())
	}

	code := apperr.CodeOf(err)
	msg := err.Error()
	if code == apperr.CodeInternal {
		msg = "internal error"
	} else {
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Code == code {
			msg = ae.Message
		}
	}
	return "[" + string(code) + "] " + capitalize(msg)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
