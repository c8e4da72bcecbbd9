package crtbp

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TrajectoryFilename returns the path of the trajectory file called name in dir,
// suffixed with the current time when stamped.
func TrajectoryFilename(dir, name string, stamped bool) string {
	if stamped {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return filepath.Join(dir, name+".txt")
}

// CreateTrajectoryFile returns a file which requires a defer close statement!
// The header describes the records written by a Propagator.
func CreateTrajectoryFile(dir, name string, stamped bool, sys System, s0 State) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(TrajectoryFilename(dir, name, stamped))
	if err != nil {
		return nil, err
	}
	// Header
	_, err = fmt.Fprintf(f, `# Creation date (UTC): %s
# Records are <t> <x> <y> <z> <jacobi> <lcn> <megno>
#   Time and distances are normalized (unit separation of the primaries)
#   Mass ratio: %g
#   Initial state: %s
#   Initial Jacobi constant: %.12f
`, time.Now().UTC(), sys.Mu, s0, sys.Jacobi(s0))
	if err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
