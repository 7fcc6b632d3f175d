package session

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	ReasonSummonCost     = NewReason("SUMMON_COST", "召唤费用不足")
	ReasonPurgeCost      = NewReason("PURGE_COST", "清除费用不足")
	ReasonShopPrice      = NewReason("SHOP_PRICE", "商店价格不足")
	ReasonUpgradeCost    = NewReason("UPGRADE_COST", "升级费用不足")
	ReasonUnlockCost     = NewReason("UNLOCK_COST", "解锁费用不足")
	ReasonTargetOccupied = NewReason("TARGET_OCCUPIED", "目标格已有棋子")
	ReasonTargetLocked   = NewReason("TARGET_LOCKED", "目标格被封印")
	ReasonSourceLocked   = NewReason("SOURCE_LOCKED", "源格被封印")
	ReasonSourceEmpty    = NewReason("SOURCE_EMPTY", "源格为空")
	ReasonSourceHostile  = NewReason("SOURCE_HOSTILE", "敌对单位不能移动")
	ReasonSameCell       = NewReason("SAME_CELL", "源格与目标格相同")
	ReasonOutOfBounds    = NewReason("OUT_OF_BOUNDS", "坐标越界")
)
