/*
Package tokenprog implements the subset of the token program needed to
create fungible and non fungible tokens: mint initialization, token account
initialization and minting.

Account state uses the token program binary layouts, so that clients built
for the public ledger can decode it.
*/
package tokenprog
