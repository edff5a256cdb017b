package canvas

// Disposable is implemented by the paint engine resources
// (paints, shaders, path effects, typefaces, pictures).
type Disposable interface {
	Dispose()
}

// resource is embedded in the engine resources
// to track their release.
type resource struct {
	disposed int
}

// Dispose marks the resource as released.
func (r *resource) Dispose() { r.disposed++ }

// IsDisposed returns true once Dispose has been called.
func (r *resource) IsDisposed() bool { return r.disposed > 0 }

// DisposeCount returns the number of calls to Dispose.
func (r *resource) DisposeCount() int { return r.disposed }

// CompositeDisposable is a collective release scope :
// all the resources added to it are released together,
// exactly once, in reverse order of addition.
type CompositeDisposable struct {
	items    []Disposable
	disposed bool
}

// Add registers d in the scope and returns it.
// Nil values are ignored.
func (cd *CompositeDisposable) Add(d Disposable) {
	if d == nil {
		return
	}
	if cd.disposed {
		// the scope is already closed : release immediately
		d.Dispose()
		return
	}
	cd.items = append(cd.items, d)
}

// Len returns the number of resources in the scope.
func (cd *CompositeDisposable) Len() int { return len(cd.items) }

// Dispose releases every registered resource. Further calls are no-ops.
func (cd *CompositeDisposable) Dispose() {
	if cd.disposed {
		return
	}
	cd.disposed = true
	for i := len(cd.items) - 1; i >= 0; i-- {
		cd.items[i].Dispose()
	}
	cd.items = nil
}
