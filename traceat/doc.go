/*
Package traceat provides typed keys and the heterogeneous metadata map
built from them.  A Key[V] can only ever be bound to, and read as, a
value of type V.  Key identity is the process-unique number assigned at
creation: two keys created independently are always distinct, even when
they share a name and a value type.

Maps are immutable by interface.  Add and Without return a new Map; the
underlying representation shares structure where it can.
*/
package traceat
