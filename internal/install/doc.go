// Package install appends an srt-translate alias to the user's existing shell
// rc files.
package install
