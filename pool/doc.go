// Package pool
// Author: momentics <momentics@gmail.com>
//
// Pinned, reference-counted segment pooling for the send path.
// Memory handed to an in-flight send must not be recycled before its
// completion is observed, so segments are reference counted and a released
// segment stops exposing its array.
package pool
