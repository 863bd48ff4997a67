// Package objects is a reference "object zoo" for package heap: concrete
// heap-resident kinds (strings, lists, closures, code blocks, call
// frames, the name table, and in-progress compiler state) that exercise
// every shape of reference the collector has to be precise about —
// poly-dispatched kinds, typed non-poly root slots, and the list
// note-list deferral. The collector itself never imports this package;
// it only ever sees these kinds through the heap.Mem / heap.ListMem
// contract they implement.
package objects
