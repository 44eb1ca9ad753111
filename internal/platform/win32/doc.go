// Package win32 implements the platform interfaces on top of user32.
//
// Every unsafe pointer conversion and raw callback in the program lives in
// this package. Hooks and hotkeys are owned by a single OS thread running a
// message loop; calls that must happen on that thread are marshalled onto
// it. Importing the package registers the provider with platform.NewProvider.
package win32
