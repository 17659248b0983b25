// Package mobilegl implements gpu.Device on an OpenGL ES 2 context from
// golang.org/x/mobile. It only builds for Android.
package mobilegl
