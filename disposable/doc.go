// Package disposable models releasable resources and cancellable work.
//
// Every implementation in this package is safe for concurrent use, and
// disposal is idempotent: disposing twice has the same effect as disposing
// once. Disposal cannot fail.
//
// The composite forms ([Composite], [Serial], [SingleAssignment]) bind the
// lifetime of one or more children to their own. Once a composite has been
// disposed, any child subsequently handed to it is disposed immediately,
// rather than stored.
package disposable
