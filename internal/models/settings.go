package models

// Settings is the application preferences blob. It is stored apart from the
// planning data and survives ClearAllData.
type Settings struct {
	General  GeneralSettings  `json:"general"`
	Dishes   DishSettings     `json:"dishes"`
	Events   EventSettings    `json:"events"`
	Products ProductSettings  `json:"products"`
	Advanced AdvancedSettings `json:"advanced"`
}

type GeneralSettings struct {
	AppName             string `json:"appName"`
	DefaultParticipants int    `json:"defaultParticipants"`
	Currency            string `json:"currency"`
	Language            string `json:"language"`
	Theme               string `json:"theme"`
}

type DishSettings struct {
	DefaultServingSize   int    `json:"defaultServingSize"`
	ShowPricesInCards    bool   `json:"showPricesInCards"`
	AutoSaveChanges      bool   `json:"autoSaveChanges"`
	DefaultCategory      string `json:"defaultCategory"`
	DefaultKosherType    string `json:"defaultKosherType"`
	ShowIngredientsCount bool   `json:"showIngredientsCount"`
}

type EventSettings struct {
	AutoSelectCurrentEvent bool   `json:"autoSelectCurrentEvent"`
	ShowEventInfoInHeader  bool   `json:"showEventInfoInHeader"`
	DefaultEventType       string `json:"defaultEventType"`
	DefaultFoodType        string `json:"defaultFoodType"`
	MaxEventsHistory       int    `json:"maxEventsHistory"`
}

type ProductSettings struct {
	DefaultView       string `json:"defaultView"` // table or cards
	AutoUpdatePrices  bool   `json:"autoUpdatePrices"`
	ShowSupplierInfo  bool   `json:"showSupplierInfo"`
	LowStockThreshold int    `json:"lowStockThreshold"`
	DefaultCategory   string `json:"defaultCategory"`
}

type AdvancedSettings struct {
	EnableLogging   bool `json:"enableLogging"`
	AutoBackup      bool `json:"autoBackup"`
	BackupInterval  int  `json:"backupInterval"` // days
	ClearDataOnExit bool `json:"clearDataOnExit"`
}

// DefaultSettings returns the factory preferences
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			AppName:             "PlanMyEvents",
			DefaultParticipants: 10,
			Currency:            "ILS",
			Language:            "he",
			Theme:               "lara-light-blue",
		},
		Dishes: DishSettings{
			DefaultServingSize:   4,
			ShowPricesInCards:    true,
			AutoSaveChanges:      true,
			DefaultCategory:      "main",
			DefaultKosherType:    KosherParve,
			ShowIngredientsCount: true,
		},
		Events: EventSettings{
			AutoSelectCurrentEvent: true,
			ShowEventInfoInHeader:  true,
			DefaultEventType:       "shabbat",
			DefaultFoodType:        KosherParve,
			MaxEventsHistory:       50,
		},
		Products: ProductSettings{
			DefaultView:       "table",
			ShowSupplierInfo:  true,
			LowStockThreshold: 5,
			DefaultCategory:   "groceries",
		},
		Advanced: AdvancedSettings{
			AutoBackup:     true,
			BackupInterval: 7,
		},
	}
}
