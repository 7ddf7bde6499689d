package compound

// Compound identifies a resource type held in stores: raw minerals, energy,
// and every product that can be synthesized from them.
type Compound string

func (c Compound) String() string { return string(c) }

// Raw materials. They are harvested, never synthesized.
const (
	Energy    Compound = "energy"
	Hydrogen  Compound = "H"
	Oxygen    Compound = "O"
	Utrium    Compound = "U"
	Lemergium Compound = "L"
	Keanium   Compound = "K"
	Zynthium  Compound = "Z"
	Catalyst  Compound = "X"
)

// Base compounds
const (
	Hydroxide       Compound = "OH"
	ZynthiumKeanite Compound = "ZK"
	UtriumLemergite Compound = "UL"
	Ghodium         Compound = "G"
)

// Tier 1
const (
	UtriumHydride    Compound = "UH"
	UtriumOxide      Compound = "UO"
	KeaniumHydride   Compound = "KH"
	KeaniumOxide     Compound = "KO"
	LemergiumHydride Compound = "LH"
	LemergiumOxide   Compound = "LO"
	ZynthiumHydride  Compound = "ZH"
	ZynthiumOxide    Compound = "ZO"
	GhodiumHydride   Compound = "GH"
	GhodiumOxide     Compound = "GO"
)

// Tier 2
const (
	UtriumAcid        Compound = "UH2O"
	UtriumAlkalide    Compound = "UHO2"
	KeaniumAcid       Compound = "KH2O"
	KeaniumAlkalide   Compound = "KHO2"
	LemergiumAcid     Compound = "LH2O"
	LemergiumAlkalide Compound = "LHO2"
	ZynthiumAcid      Compound = "ZH2O"
	ZynthiumAlkalide  Compound = "ZHO2"
	GhodiumAcid       Compound = "GH2O"
	GhodiumAlkalide   Compound = "GHO2"
)

// Tier 3 (catalyzed)
const (
	CatalyzedUtriumAcid        Compound = "XUH2O"
	CatalyzedUtriumAlkalide    Compound = "XUHO2"
	CatalyzedKeaniumAcid       Compound = "XKH2O"
	CatalyzedKeaniumAlkalide   Compound = "XKHO2"
	CatalyzedLemergiumAcid     Compound = "XLH2O"
	CatalyzedLemergiumAlkalide Compound = "XLHO2"
	CatalyzedZynthiumAcid      Compound = "XZH2O"
	CatalyzedZynthiumAlkalide  Compound = "XZHO2"
	CatalyzedGhodiumAcid       Compound = "XGH2O"
	CatalyzedGhodiumAlkalide   Compound = "XGHO2"
)

// RawMaterials lists every compound that has no reaction edge
var RawMaterials = []Compound{
	Energy, Hydrogen, Oxygen, Utrium, Lemergium, Keanium, Zynthium, Catalyst,
}

// Tier1 lists the hydrides and oxides
var Tier1 = []Compound{
	UtriumHydride, UtriumOxide, KeaniumHydride, KeaniumOxide,
	LemergiumHydride, LemergiumOxide, ZynthiumHydride, ZynthiumOxide,
	GhodiumHydride, GhodiumOxide,
}

// Tier2 lists the acids and alkalides
var Tier2 = []Compound{
	UtriumAcid, UtriumAlkalide, KeaniumAcid, KeaniumAlkalide,
	LemergiumAcid, LemergiumAlkalide, ZynthiumAcid, ZynthiumAlkalide,
	GhodiumAcid, GhodiumAlkalide,
}

// Tier3 lists the catalyzed boosts
var Tier3 = []Compound{
	CatalyzedUtriumAcid, CatalyzedUtriumAlkalide, CatalyzedKeaniumAcid, CatalyzedKeaniumAlkalide,
	CatalyzedLemergiumAcid, CatalyzedLemergiumAlkalide, CatalyzedZynthiumAcid, CatalyzedZynthiumAlkalide,
	CatalyzedGhodiumAcid, CatalyzedGhodiumAlkalide,
}
