// Package runtime executes the tasks a synthesized project records in its
// tasks manifest. Exec steps run through the system shell, spawn steps run
// other tasks in the same process, and say steps print a line.
package runtime
