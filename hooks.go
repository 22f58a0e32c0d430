package ripple

// BeforeSubscribe runs perform before each upstream subscription starts.
func (o Observable[T]) BeforeSubscribe(perform func()) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		perform()
		return o.Subscribe(observer)
	})
}

// AfterSubscribe runs perform once the upstream subscribe call has returned.
func (o Observable[T]) AfterSubscribe(perform func()) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		d := o.Subscribe(observer)
		perform()
		return d
	})
}

// BeforeDispose runs perform right before the upstream subscription is
// released. It runs once, however often the result is disposed.
func (o Observable[T]) BeforeDispose(perform func()) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		upstream := o.Subscribe(observer)
		return NewDisposable(func() {
			perform()
			upstream.Dispose()
		})
	})
}

// AfterDispose runs perform right after the upstream subscription is
// released.
func (o Observable[T]) AfterDispose(perform func()) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		upstream := o.Subscribe(observer)
		return NewDisposable(func() {
			upstream.Dispose()
			perform()
		})
	})
}

// BeforeReceive runs perform with each element before it is delivered.
func (o Observable[T]) BeforeReceive(perform func(T)) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		return o.Subscribe(func(e T) {
			perform(e)
			observer(e)
		})
	})
}

// AfterReceive runs perform with each element after it was delivered.
func (o Observable[T]) AfterReceive(perform func(T)) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		return o.Subscribe(func(e T) {
			observer(e)
			perform(e)
		})
	})
}
