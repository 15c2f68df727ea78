/*
Package app wires the programs into a runtime and runs it on top of a
versioned store. A Ledger is initialized once from a genesis file and then
executes one transaction per committed version.
*/
package app
