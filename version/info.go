// Package version describes the server build announced to clients.
package version

import "fmt"

type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%v.%v.%v", v.Major, v.Minor, v.Patch)
}

type Info struct {
	Name       string
	Version    Version
	Vendor     string
	SupportURL string
}

func Default() Info {
	return Info{
		Name:    "imapcore",
		Version: Version{Major: 0, Minor: 1, Patch: 0},
		Vendor:  "imapcore",
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%v %v", i.Name, i.Version)
}
