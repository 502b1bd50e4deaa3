package bni

// CSS Selectors for the BNI mobile banking portal
const (
	// Portal root
	SelectorRetailUserLink = `a#RetailUser`

	// Every page carries a single named form used for navigation
	SelectorForm = `form[name="form"]`

	// Login result page
	SelectorLoginError  = `span#Display_MConError`
	SelectorMessage     = `span#message`
	SelectorProfileName = `span#CurrentProfileDisp`

	// Account overview page
	SelectorTotalAmount       = `span.TotalAmt`
	SelectorAccountDetailLink = `a[id*="db_acc"]`

	// Account detail page: row n of both tables holds its value in
	// td#Row{n}_{n}_column2. The first match is the general details table,
	// the second one the balance details table.
	selectorAccountDetailCell = `table td[id="Row%d_%d_column2"]`

	// Dashboard
	SelectorHistoryLink = `a#TxnHistory`
)

// Form field names
const (
	FieldCorpID          = "CorpId"
	FieldPassword        = "PassWord"
	FieldDashboard       = "dashBoard"
	FieldLogOut          = "LogOut"
	FieldBack            = "__BACK__"
	FieldHome            = "__HOME__"
	FieldMainAccountType = "MAIN_ACCOUNT_TYPE"
	FieldSearchOption    = "Search_Option"
	FieldTxnPeriod       = "TxnPeriod"
	FieldFromDate        = "txnSrcFromDate"
	FieldToDate          = "txnSrcToDate"
)

// Fixed form values
const (
	AccountTypeOperational = "OPR"
	SearchByDate           = "Date"
	TxnPeriodCustom        = "-1"
)

// Page text (the portal is in Indonesian)
const (
	TextForcedRelogin   = "login kembali"
	TextLogoutConfirmed = "alasan keamanan"

	// Transaction history labels
	LabelDate        = "Tanggal Transaksi"
	LabelDescription = "Uraian Transaksi"
	LabelType        = "Tipe"
	LabelAmount      = "Nominal"
	LabelBalance     = "Saldo"
)
