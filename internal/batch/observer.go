package batch

// Observer receives task lifecycle callbacks. Implementations must be safe for
// concurrent use; callbacks arrive from worker goroutines.
type Observer interface {
	TaskStarted(Task)
	TaskFinished(Result)
}

// Observers fans callbacks out to each non-nil member in order.
type Observers []Observer

func (o Observers) TaskStarted(task Task) {
	for _, obs := range o {
		if obs != nil {
			obs.TaskStarted(task)
		}
	}
}

func (o Observers) TaskFinished(result Result) {
	for _, obs := range o {
		if obs != nil {
			obs.TaskFinished(result)
		}
	}
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	Started  func(Task)
	Finished func(Result)
}

func (f ObserverFuncs) TaskStarted(task Task) {
	if f.Started != nil {
		f.Started(task)
	}
}

func (f ObserverFuncs) TaskFinished(result Result) {
	if f.Finished != nil {
		f.Finished(result)
	}
}

type nopObserver struct{}

func (nopObserver) TaskStarted(Task)    {}
func (nopObserver) TaskFinished(Result) {}
