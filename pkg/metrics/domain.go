package metrics

// Доменные хелперы: сервисы зависят от узких интерфейсов
// (OfferSent/Transition/...), а не от prometheus напрямую, поэтому
// при выключенных метриках подставляется Noop.

// OfferSent учитывает отправленное предложение слота
func (m *Metrics) OfferSent() {
	m.OffersSentTotal.Inc()
}

// OfferExpired учитывает предложение, истёкшее без ответа
func (m *Metrics) OfferExpired() {
	m.OffersExpiredTotal.Inc()
}

// ClaimConflict учитывает проигранную гонку за слот
func (m *Metrics) ClaimConflict() {
	m.ClaimConflictsTotal.Inc()
}

// Transition учитывает переход состояния записи листа ожидания
func (m *Metrics) Transition(from, to string) {
	m.WaitlistTransitionsTotal.WithLabelValues(from, to).Inc()
}

// SearchScanned учитывает число просмотренных дней поиска
func (m *Metrics) SearchScanned(days int) {
	m.SearchDaysScanned.Observe(float64(days))
}

// Noop пустая реализация доменных метрик (метрики выключены)
type Noop struct{}

func (Noop) OfferSent()                {}
func (Noop) OfferExpired()             {}
func (Noop) ClaimConflict()            {}
func (Noop) Transition(from, to string) {}
func (Noop) SearchScanned(days int)    {}
