package service

// RemindedToday reports how many returns the worker remembers reminding.
func (w *ReminderWorker) RemindedToday() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sentOn)
}
