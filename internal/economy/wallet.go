package economy

// Wallet 持有法力余额，余额永不为负。
// 只由拥有状态的 actor 访问，不加锁。
type Wallet struct {
	balance float64
}

// NewWallet 显式给出初始余额，负数按 0 处理。
func NewWallet(initial float64) *Wallet {
	return &Wallet{balance: max(0, initial)}
}

func (w *Wallet) Balance() float64 {
	return w.balance
}

// Set 覆盖余额（读档、重置时使用），不做累加。
func (w *Wallet) Set(v float64) {
	w.balance = max(0, v)
}

// Add 增加余额，负数忽略。
func (w *Wallet) Add(amount float64) {
	if amount > 0 {
		w.balance += amount
	}
}

// Consume 余额不足时返回 false 且不修改余额。
func (w *Wallet) Consume(amount float64) bool {
	if amount < 0 || amount > w.balance {
		return false
	}
	w.balance -= amount
	return true
}

// Drain 扣除至多 amount，返回实际扣除量。用于敌对单位偷取。
func (w *Wallet) Drain(amount float64) float64 {
	taken := min(max(0, amount), w.balance)
	w.balance -= taken
	return taken
}
