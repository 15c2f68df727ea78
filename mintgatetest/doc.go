/*
Package mintgatetest provides test doubles and helpers for programs.
*/
package mintgatetest
