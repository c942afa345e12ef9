package types

// Document is the content of index.json: version maps for the core source
// repositories and for every indexed package, keyed by release channel.
type Document struct {
	Core         map[string]string            `json:"core"`
	Platforms    map[string]map[string]string `json:"platforms"`
	Integrations map[string]map[string]string `json:"integrations"`
}

// NewDocument returns an empty index document with all sections allocated.
func NewDocument() *Document {
	return &Document{
		Core:         make(map[string]string),
		Platforms:    make(map[string]map[string]string),
		Integrations: make(map[string]map[string]string),
	}
}

// section returns the version map for the given package kind, or nil when
// the kind is unknown.
func (d *Document) section(kind string) map[string]map[string]string {
	switch kind {
	case KindIntegration:
		if d.Integrations == nil {
			d.Integrations = make(map[string]map[string]string)
		}
		return d.Integrations
	case KindPlatform:
		if d.Platforms == nil {
			d.Platforms = make(map[string]map[string]string)
		}
		return d.Platforms
	default:
		return nil
	}
}

// Version returns the recorded version of a package on a channel and
// whether one is recorded.
func (d *Document) Version(kind, name, channel string) (string, bool) {
	sec := d.section(kind)
	if sec == nil {
		return "", false
	}
	channels, ok := sec[name]
	if !ok {
		return "", false
	}
	v, ok := channels[channel]
	return v, ok
}

// Known reports whether the package appears in the index on any channel.
func (d *Document) Known(kind, name string) bool {
	sec := d.section(kind)
	if sec == nil {
		return false
	}
	_, ok := sec[name]
	return ok
}

// SetVersion records the version of a package on a channel. Versions on
// the other channel are preserved.
func (d *Document) SetVersion(kind, name, channel, version string) error {
	if !ValidChannel(channel) {
		return ErrChannelUnknown
	}
	sec := d.section(kind)
	if sec == nil {
		return ErrKindUnknown
	}
	channels, ok := sec[name]
	if !ok {
		channels = make(map[string]string)
		sec[name] = channels
	}
	channels[channel] = version
	return nil
}

// SetCore records the version of a core source repository.
func (d *Document) SetCore(name, version string) {
	if d.Core == nil {
		d.Core = make(map[string]string)
	}
	d.Core[name] = version
}
