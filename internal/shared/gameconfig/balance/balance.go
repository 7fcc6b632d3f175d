package balance

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed balance.yaml
var defaultYAML []byte

// Balance 是所有可调数值表，玩法代码只读。
type Balance struct {
	Board       Board        `yaml:"board"`
	Production  Production   `yaml:"production"`
	Costs       Costs        `yaml:"costs"`
	Rewards     Rewards      `yaml:"rewards"`
	Spawn       Spawn        `yaml:"spawn"`
	Luck        [][]float64  `yaml:"luck"`
	AttackBands []AttackBand `yaml:"attack_bands"`
	Hostile     Hostile      `yaml:"hostile"`
	TimeOfDay   []TimeBand   `yaml:"time_of_day"`
	Night       Night        `yaml:"night"`
	Regions     []Region     `yaml:"regions"`
	Consumables []Consumable `yaml:"consumables"`
	Boost       Boost        `yaml:"boost"`
	ElixirSecs  float64      `yaml:"elixir_seconds"`
	Upgrades    Upgrades     `yaml:"upgrades"`
	LogCapacity int          `yaml:"log_capacity"`
}

type Board struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	MaxTier int `yaml:"max_tier"`
}

type Production struct {
	BaseRate float64 `yaml:"base_rate"`
	Growth   float64 `yaml:"growth"`
}

type Costs struct {
	SummonFloor           float64 `yaml:"summon_floor"`
	SummonBalanceFraction float64 `yaml:"summon_balance_fraction"`
	SummonSeconds         float64 `yaml:"summon_seconds"`
	PurgeFloor            float64 `yaml:"purge_floor"`
	PurgeSeconds          float64 `yaml:"purge_seconds"`
}

type Rewards struct {
	DefeatPerTier     float64 `yaml:"defeat_per_tier"`
	MergeBonusPerTier float64 `yaml:"merge_bonus_per_tier"`
}

type Spawn struct {
	Base         float64     `yaml:"base"`
	PerMilestone float64     `yaml:"per_milestone"`
	Cap          float64     `yaml:"cap"`
	Milestones   []Milestone `yaml:"milestones"`
}

// Milestone 只填一个阈值：余额或产出速率。
type Milestone struct {
	Mana float64 `yaml:"mana"`
	Rate float64 `yaml:"rate"`
}

type AttackBand struct {
	MinTier int    `yaml:"min_tier"`
	Shape   string `yaml:"shape"`
}

type Hostile struct {
	DrainerStealChance  float64 `yaml:"drainer_steal_chance"`
	DrainerStealPerTier float64 `yaml:"drainer_steal_per_tier"`
	DrainerSpreadChance float64 `yaml:"drainer_spread_chance"`
	SealerLockChance    float64 `yaml:"sealer_lock_chance"`
	PhantomStealChance  float64 `yaml:"phantom_steal_chance"`
	PhantomStealPerTier float64 `yaml:"phantom_steal_per_tier"`
	PhantomWarpChance   float64 `yaml:"phantom_warp_chance"`
}

// TimeBand 是 [Start, End) 小时区间，End < Start 表示跨午夜。
type TimeBand struct {
	Name       string  `yaml:"name"`
	Start      int     `yaml:"start"`
	End        int     `yaml:"end"`
	Multiplier float64 `yaml:"multiplier"`
}

type Night struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

type Region struct {
	ID              string             `yaml:"id"`
	UnlockCost      float64            `yaml:"unlock_cost"`
	RequiredDefeats int                `yaml:"required_defeats"`
	Multiplier      float64            `yaml:"multiplier"`
	TimeOfDay       bool               `yaml:"time_of_day"`
	Risk            float64            `yaml:"risk"`
	HostileWeights  map[string]float64 `yaml:"hostile_weights"`
}

type Consumable struct {
	ID       string  `yaml:"id"`
	MinPrice float64 `yaml:"min_price"`
	Seconds  float64 `yaml:"seconds"`
	Gated    bool    `yaml:"gated"`
}

type Boost struct {
	Multiplier float64       `yaml:"multiplier"`
	Duration   time.Duration `yaml:"duration"`
}

type Upgrades struct {
	SummonLuck        LevelUpgrade `yaml:"summon_luck"`
	OfflineEfficiency StatUpgrade  `yaml:"offline_efficiency"`
	OfflineDuration   StatUpgrade  `yaml:"offline_duration"`
}

type LevelUpgrade struct {
	BaseCost float64 `yaml:"base_cost"`
	MaxLevel int     `yaml:"max_level"`
}

// StatUpgrade 持久化的是数值本身（效率、秒数），等级由数值反推。
type StatUpgrade struct {
	BaseCost  float64 `yaml:"base_cost"`
	Base      float64 `yaml:"base"`
	Increment float64 `yaml:"increment"`
	Max       float64 `yaml:"max"`
}

// Default 返回内置数值表，内置表解析失败属于构建错误。
func Default() *Balance {
	b, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Errorf("embedded balance.yaml: %w", err))
	}
	return b
}

// Load 读取外部数值表；path 为空时使用内置表。
func Load(path string) (*Balance, error) {
	if path == "" {
		return Parse(defaultYAML)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Balance, error) {
	var b Balance
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("balance.yaml: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Balance) Region(id string) (Region, bool) {
	for _, r := range b.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

func (b *Balance) Consumable(id string) (Consumable, bool) {
	for _, c := range b.Consumables {
		if c.ID == id {
			return c, true
		}
	}
	return Consumable{}, false
}

// MaxLuckLevel 是幸运等级上限（从 1 开始）。
func (b *Balance) MaxLuckLevel() int {
	return len(b.Luck)
}
