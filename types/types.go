// types package contains the public API types
// that are shared between the analytics, validation and model packages
package types

// Params holds query parameters or serialized model properties keyed by name.
type Params map[string]interface{}

// Clone returns a shallow copy of the params.
func (p Params) Clone() Params {
	clone := make(Params, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}

// Merge copies every entry of other into p; entries of other win.
func (p Params) Merge(other Params) {
	for k, v := range other {
		p[k] = v
	}
}
