package model

// Location is a client-side path plus the redirect state attached to it.
// From is set by the guard when it sends a visitor to the login screen and
// names the page they asked for.
type Location struct {
	Pathname string
	From     *Location
}

// At returns a Location for path with no redirect state.
func At(path string) Location { return Location{Pathname: path} }

// ReturnPath is where a login started from this location should land.
func (l Location) ReturnPath() string {
	if l.From == nil || l.From.Pathname == "" {
		return "/"
	}
	return l.From.Pathname
}
