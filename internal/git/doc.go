// Package git reads the revision of the project being built so build logs
// and history can be tied to a commit.
package git
