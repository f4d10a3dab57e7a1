package metrics

// The helpers below let services hold a nil *Metrics in tests.

func (m *Metrics) OrderCreated() {
	if m != nil {
		m.OrdersCreated.Inc()
	}
}

func (m *Metrics) Transition(status string) {
	if m != nil {
		m.OrderTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) CartAdd() {
	if m != nil {
		m.CartAdds.Inc()
	}
}

func (m *Metrics) ReviewCreated() {
	if m != nil {
		m.ReviewsCreated.Inc()
	}
}

func (m *Metrics) ProductViewed() {
	if m != nil {
		m.ProductViews.Inc()
	}
}

func (m *Metrics) UploadStored(kind string) {
	if m != nil {
		m.UploadsStored.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) OrderNumberCollision() {
	if m != nil {
		m.OrderNumberClash.Inc()
	}
}
