/*
Package ataprog implements the associated token account program. An
associated token account is the canonical token account of a wallet for a
given mint, living at an address derived from the wallet, the token program
and the mint.
*/
package ataprog
