package trace

import (
	"os"

	"github.com/tatchi/trace-go/tracecatapult"
)

// InitFromEnv installs a Catapult collector according to $TRACE:
//
//	1        write trace.json in the working directory
//	stdout   write to standard output
//	stderr   write to standard error
//	<other>  treated as a file path
//	unset    install nothing
//
// It returns whether a collector was installed.  Numeric values other
// than "1" are file paths like any other string.
func InitFromEnv() (bool, error) {
	var opt tracecatapult.Option
	switch v := os.Getenv("TRACE"); v {
	case "":
		return false, nil
	case "1":
		opt = tracecatapult.WithFile("trace.json")
	case "stdout":
		opt = tracecatapult.WithStdout()
	case "stderr":
		opt = tracecatapult.WithStderr()
	default:
		opt = tracecatapult.WithFile(v)
	}
	engine, err := tracecatapult.New(opt)
	if err != nil {
		return false, err
	}
	Install(engine)
	return true, nil
}
