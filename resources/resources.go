// Package resources embeds the HTML views and form declarations shipped with
// the binary.
package resources

import (
	"embed"
	"io/fs"
)

//go:embed views/*.html forms/*.yaml
var files embed.FS

// Views returns the template filesystem rooted at views/.
func Views() fs.FS {
	sub, err := fs.Sub(files, "views")
	if err != nil {
		panic(err)
	}
	return sub
}

// Forms returns the form declaration filesystem rooted at forms/.
func Forms() fs.FS {
	sub, err := fs.Sub(files, "forms")
	if err != nil {
		panic(err)
	}
	return sub
}
