/*
Package runtime is an in-process ledger host. It keeps ledger accounts in a
key value store, verifies transaction signatures, executes program
instructions and provides cross-program invocation to programs.

Every transaction is processed inside a savepoint: if any instruction fails,
all writes of the whole transaction are discarded. Programs rely on this
guarantee and never undo their own writes.
*/
package runtime
