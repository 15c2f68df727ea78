/*
Package sysprog implements the system program. It owns every account that
was not yet allocated, creates new accounts and moves lamports between
system owned accounts.

Instructions use the bincode layout: a little endian u32 instruction index
followed by the instruction fields.
*/
package sysprog
