package analysis

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Context identifies the host and the moment a report was taken.
// It is captured exactly once per analysis run.
type Context struct {
	Hostname  string            `json:"hostname"`
	Uname     string            `json:"uname"`
	ReportID  string            `json:"report_id"`
	Timestamp time.Time         `json:"timestamp"`
	More      map[string]string `json:"more,omitempty"`
}

// NewContext captures the host identity. Failure to read the hostname
// or the kernel identity is fatal for the whole run.
func NewContext() (Context, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Context{}, fmt.Errorf("reading hostname: %w", err)
	}

	uname, err := unameString()
	if err != nil {
		return Context{}, fmt.Errorf("reading uname: %w", err)
	}

	return Context{
		Hostname:  hostname,
		Uname:     uname,
		ReportID:  uuid.NewString(),
		Timestamp: time.Now(),
		More:      make(map[string]string),
	}, nil
}

// Add attaches a free-form annotation shown in the report header.
func (c *Context) Add(key, value string) {
	if c.More == nil {
		c.More = make(map[string]string)
	}
	c.More[key] = value
}

// unameString formats the kernel identity the way uname -a leads:
// "sysname nodename release version machine".
func unameString() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}

	parts := []string{
		utsField(uts.Sysname[:]),
		utsField(uts.Nodename[:]),
		utsField(uts.Release[:]),
		utsField(uts.Version[:]),
		utsField(uts.Machine[:]),
	}
	return strings.Join(parts, " "), nil
}

// utsField converts a NUL-terminated utsname field to a string.
func utsField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
