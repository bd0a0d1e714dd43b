// Package workspace manages the staging workspace used by ahead-of-time
// builds.
//
// The workspace lives at a fixed path under the project root
// (<root>/.skypagestmp). Create starts from an empty directory, removing
// residue a crashed build may have left behind, and Cleanup removes the
// whole tree exactly once no matter how often it is called. Concurrent
// builds against one project share that path and are not supported.
package workspace
