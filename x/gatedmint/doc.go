/*
Package gatedmint implements a program that mints a single unit of a new
token class, guarded by two fixed co-signers.

An invocation is accepted only if both the admin and the second signer
identities configured at startup signed it. The program then, in this
order, allocates the mint account, initializes it as a token class with
zero decimals, creates the admin's associated token account for it and
mints one unit into that account. Every step is a call into another
program. Atomicity of the whole sequence is provided by the host, which
discards all writes of a failed invocation.
*/
package gatedmint
