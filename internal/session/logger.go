package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const maxLineLength = 256

var lineEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)

func writeLog(w io.Writer, leader, sessionID, name, line string) {
	line = lineEscaper.Replace(strings.TrimSpace(line))

	if len(line) > maxLineLength {
		line = line[:maxLineLength] + "..."
	}

	if _, err := fmt.Fprintf(w, "%v[%v:%v]: %v\n", leader, sessionID, name, line); err != nil {
		logrus.WithError(err).Warn("Failed to write IMAP log")
	}
}
