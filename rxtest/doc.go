// Package rxtest provides a marble-diagram style harness, for testing rx
// pipelines deterministically, in virtual time.
//
// Hot and cold test observables emit recorded notifications at fixed
// virtual instants, and record subscription intervals. A recording observer
// captures what a pipeline emits, and when. Start wires these together,
// creating, subscribing to, and disposing the pipeline under test at fixed
// instants (100, 200, and 1000, by default).
package rxtest
