// SPDX-License-Identifier: GPL-3.0-only
package ty

// MS is a shorthand for map[string]string
type MS map[string]string

// Merge merges another MS into this one.
func (ms *MS) Merge(ms2 MS) {
	if *ms == nil {
		*ms = MS{}
	}
	for k, v := range ms2 {
		(*ms)[k] = v
	}
}
