// Package term provides the terminal attribute profile applied to newly
// allocated PTYs and low-level window size operations on raw descriptors.
package term
