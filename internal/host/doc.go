// Package host runs a plugin.Processor against real audio devices and the
// terminal: a pull renderer for oto, a blocking PortAudio stream and raw
// keyboard control of the parameters.
//
// Build with -tags headless to drop the device backends.
package host
