/*
Package session implements interview session management and persistence orchestration.

The Manager serializes access to each session with a ref-counted in-process
mutex and, when configured, a distributed lock so that replicas sharing a
store never interleave two answers to the same interview.
*/
package session
