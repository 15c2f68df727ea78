/*
Package mintgate defines the common interfaces shared by the host runtime and
the programs it executes: accounts, programs, cross-program invocation, the
key value store and the context values passed between them.

A program is invoked with an ordered list of account references and an
opaque instruction payload. Every account reference carries the flags the
host computed for the current invocation (signer, writable). Programs never
touch signatures themselves; they trust the flags.

We pass context through context.Context between the runtime and programs. For
every value XYZ of type T that we want to support in the context there are two
functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) T

WithXYZ may panic if the value was previously set to avoid lower-level code
overwriting the value (eg. chain id).
*/
package mintgate
