// Package timezone resolves a country and region code to an IANA time zone
// name. Countries spanning several zones resolve only with a known region.
package timezone

// Lookup returns the time zone for a country and region code. region may be
// empty. ok is false when no zone can be determined.
func Lookup(country, region string) (name string, ok bool) {
	if zones, multi := regionZones[country]; multi {
		name, ok = zones[region]
		return name, ok
	}
	name, ok = countryZones[country]
	return name, ok
}

var countryZones = map[string]string{
	"AD": "Europe/Andorra",
	"AE": "Asia/Dubai",
	"AF": "Asia/Kabul",
	"AG": "America/Antigua",
	"AI": "America/Anguilla",
	"AL": "Europe/Tirane",
	"AM": "Asia/Yerevan",
	"AO": "Africa/Luanda",
	"AR": "America/Buenos_Aires",
	"AS": "US/Samoa",
	"AT": "Europe/Vienna",
	"AW": "America/Aruba",
	"AX": "Europe/Mariehamn",
	"AZ": "Asia/Baku",
	"BA": "Europe/Sarajevo",
	"BB": "America/Barbados",
	"BD": "Asia/Dhaka",
	"BE": "Europe/Brussels",
	"BF": "Africa/Ouagadougou",
	"BG": "Europe/Sofia",
	"BH": "Asia/Bahrain",
	"BI": "Africa/Bujumbura",
	"BJ": "Africa/Porto-Novo",
	"BL": "America/St_Barthelemy",
	"BM": "Atlantic/Bermuda",
	"BN": "Asia/Brunei",
	"BO": "America/La_Paz",
	"BQ": "America/Curacao",
	"BS": "America/Nassau",
	"BT": "Asia/Thimphu",
	"BW": "Africa/Gaborone",
	"BY": "Europe/Minsk",
	"BZ": "America/Belize",
	"CF": "Africa/Bangui",
	"CG": "Africa/Brazzaville",
	"CH": "Europe/Zurich",
	"CI": "Africa/Abidjan",
	"CK": "Pacific/Rarotonga",
	"CL": "America/Santiago",
	"CM": "Africa/Lagos",
	"CN": "Asia/Shanghai",
	"CO": "America/Bogota",
	"CR": "America/Costa_Rica",
	"CU": "America/Havana",
	"CV": "Atlantic/Cape_Verde",
	"CW": "America/Curacao",
	"CX": "Indian/Christmas",
	"CY": "Asia/Nicosia",
	"CZ": "Europe/Prague",
	"DE": "Europe/Berlin",
	"DJ": "Africa/Djibouti",
	"DK": "Europe/Copenhagen",
	"DM": "America/Dominica",
	"DO": "America/Santo_Domingo",
	"DZ": "Africa/Algiers",
	"EE": "Europe/Tallinn",
	"EG": "Africa/Cairo",
	"EH": "Africa/El_Aaiun",
	"ER": "Africa/Asmera",
	"ET": "Africa/Addis_Ababa",
	"FI": "Europe/Helsinki",
	"FJ": "Pacific/Fiji",
	"FK": "Atlantic/Stanley",
	"FO": "Atlantic/Faeroe",
	"FR": "Europe/Paris",
	"GA": "Africa/Libreville",
	"GB": "Europe/London",
	"GD": "America/Grenada",
	"GE": "Asia/Tbilisi",
	"GF": "America/Cayenne",
	"GG": "Europe/Guernsey",
	"GH": "Africa/Accra",
	"GI": "Europe/Gibraltar",
	"GM": "Africa/Banjul",
	"GN": "Africa/Conakry",
	"GP": "America/Guadeloupe",
	"GQ": "Africa/Malabo",
	"GR": "Europe/Athens",
	"GS": "Atlantic/South_Georgia",
	"GT": "America/Guatemala",
	"GU": "Pacific/Guam",
	"GW": "Africa/Bissau",
	"GY": "America/Guyana",
	"HK": "Asia/Hong_Kong",
	"HN": "America/Tegucigalpa",
	"HR": "Europe/Zagreb",
	"HT": "America/Port-au-Prince",
	"HU": "Europe/Budapest",
	"IE": "Europe/Dublin",
	"IL": "Asia/Jerusalem",
	"IM": "Europe/Isle_of_Man",
	"IN": "Asia/Calcutta",
	"IO": "Indian/Chagos",
	"IQ": "Asia/Baghdad",
	"IR": "Asia/Tehran",
	"IS": "Atlantic/Reykjavik",
	"IT": "Europe/Rome",
	"JE": "Europe/Jersey",
	"JM": "America/Jamaica",
	"JO": "Asia/Amman",
	"JP": "Asia/Tokyo",
	"KE": "Africa/Nairobi",
	"KG": "Asia/Bishkek",
	"KH": "Asia/Phnom_Penh",
	"KM": "Indian/Comoro",
	"KN": "America/St_Kitts",
	"KP": "Asia/Pyongyang",
	"KR": "Asia/Seoul",
	"KW": "Asia/Kuwait",
	"KY": "America/Cayman",
	"LA": "Asia/Vientiane",
	"LB": "Asia/Beirut",
	"LC": "America/St_Lucia",
	"LI": "Europe/Vaduz",
	"LK": "Asia/Colombo",
	"LR": "Africa/Monrovia",
	"LS": "Africa/Maseru",
	"LT": "Europe/Vilnius",
	"LU": "Europe/Luxembourg",
	"LV": "Europe/Riga",
	"LY": "Africa/Tripoli",
	"MA": "Africa/Casablanca",
	"MC": "Europe/Monaco",
	"MD": "Europe/Chisinau",
	"ME": "Europe/Podgorica",
	"MF": "America/Marigot",
	"MG": "Indian/Antananarivo",
	"MK": "Europe/Skopje",
	"ML": "Africa/Bamako",
	"MM": "Asia/Rangoon",
	"MO": "Asia/Macao",
	"MP": "Pacific/Saipan",
	"MQ": "America/Martinique",
	"MR": "Africa/Nouakchott",
	"MS": "America/Montserrat",
	"MT": "Europe/Malta",
	"MU": "Indian/Mauritius",
	"MV": "Indian/Maldives",
	"MW": "Africa/Blantyre",
	"MZ": "Africa/Maputo",
	"NA": "Africa/Windhoek",
	"NC": "Pacific/Noumea",
	"NE": "Africa/Niamey",
	"NF": "Pacific/Norfolk",
	"NG": "Africa/Lagos",
	"NI": "America/Managua",
	"NL": "Europe/Amsterdam",
	"NO": "Europe/Oslo",
	"NP": "Asia/Katmandu",
	"NR": "Pacific/Nauru",
	"NU": "Pacific/Niue",
	"OM": "Asia/Muscat",
	"PA": "America/Panama",
	"PE": "America/Lima",
	"PG": "Pacific/Port_Moresby",
	"PH": "Asia/Manila",
	"PK": "Asia/Karachi",
	"PL": "Europe/Warsaw",
	"PM": "America/Miquelon",
	"PN": "Pacific/Pitcairn",
	"PR": "America/Puerto_Rico",
	"PS": "Asia/Gaza",
	"PW": "Pacific/Palau",
	"PY": "America/Asuncion",
	"QA": "Asia/Qatar",
	"RE": "Indian/Reunion",
	"RO": "Europe/Bucharest",
	"RS": "Europe/Belgrade",
	"RW": "Africa/Kigali",
	"SA": "Asia/Riyadh",
	"SB": "Pacific/Guadalcanal",
	"SC": "Indian/Mahe",
	"SD": "Africa/Khartoum",
	"SE": "Europe/Stockholm",
	"SG": "Asia/Singapore",
	"SH": "Atlantic/St_Helena",
	"SI": "Europe/Ljubljana",
	"SJ": "Arctic/Longyearbyen",
	"SK": "Europe/Bratislava",
	"SL": "Africa/Freetown",
	"SM": "Europe/San_Marino",
	"SN": "Africa/Dakar",
	"SO": "Africa/Mogadishu",
	"SR": "America/Paramaribo",
	"SS": "Africa/Juba",
	"ST": "Africa/Sao_Tome",
	"SV": "America/El_Salvador",
	"SX": "America/Curacao",
	"SY": "Asia/Damascus",
	"SZ": "Africa/Mbabane",
	"TC": "America/Grand_Turk",
	"TD": "Africa/Ndjamena",
	"TF": "Indian/Kerguelen",
	"TG": "Africa/Lome",
	"TH": "Asia/Bangkok",
	"TJ": "Asia/Dushanbe",
	"TK": "Pacific/Fakaofo",
	"TL": "Asia/Dili",
	"TM": "Asia/Ashgabat",
	"TN": "Africa/Tunis",
	"TO": "Pacific/Tongatapu",
	"TR": "Asia/Istanbul",
	"TT": "America/Port_of_Spain",
	"TV": "Pacific/Funafuti",
	"TW": "Asia/Taipei",
	"TZ": "Africa/Dar_es_Salaam",
	"UG": "Africa/Kampala",
	"UY": "America/Montevideo",
	"VA": "Europe/Vatican",
	"VC": "America/St_Vincent",
	"VE": "America/Caracas",
	"VG": "America/Tortola",
	"VI": "America/St_Thomas",
	"VN": "Asia/Phnom_Penh",
	"VU": "Pacific/Efate",
	"WF": "Pacific/Wallis",
	"WS": "Pacific/Samoa",
	"YE": "Asia/Aden",
	"YT": "Indian/Mayotte",
	"ZA": "Africa/Johannesburg",
	"ZM": "Africa/Lusaka",
	"ZW": "Africa/Harare",
}

var regionZones = map[string]map[string]string{
	"AU": {
		"01": "Australia/Canberra",
		"02": "Australia/NSW",
		"03": "Australia/North",
		"04": "Australia/Queensland",
		"05": "Australia/South",
		"06": "Australia/Tasmania",
		"07": "Australia/Victoria",
		"08": "Australia/West",
	},
	"BR": {
		"01": "America/Rio_Branco",
		"02": "America/Maceio",
		"03": "America/Sao_Paulo",
		"04": "America/Manaus",
		"05": "America/Bahia",
		"06": "America/Fortaleza",
		"07": "America/Sao_Paulo",
		"08": "America/Sao_Paulo",
		"11": "America/Campo_Grande",
		"13": "America/Belem",
		"14": "America/Cuiaba",
		"15": "America/Sao_Paulo",
		"16": "America/Belem",
		"17": "America/Recife",
		"18": "America/Sao_Paulo",
		"20": "America/Fortaleza",
		"21": "America/Sao_Paulo",
		"22": "America/Recife",
		"23": "America/Sao_Paulo",
		"24": "America/Porto_Velho",
		"25": "America/Boa_Vista",
		"26": "America/Sao_Paulo",
		"27": "America/Sao_Paulo",
		"28": "America/Maceio",
		"29": "America/Sao_Paulo",
		"30": "America/Recife",
		"31": "America/Araguaina",
	},
	"CA": {
		"AB": "America/Edmonton",
		"BC": "America/Vancouver",
		"MB": "America/Winnipeg",
		"NB": "America/Halifax",
		"NL": "America/St_Johns",
		"NS": "America/Halifax",
		"NT": "America/Yellowknife",
		"NU": "America/Rankin_Inlet",
		"ON": "America/Toronto",
		"PE": "America/Halifax",
		"QC": "America/Montreal",
		"SK": "America/Regina",
		"YT": "America/Whitehorse",
	},
	"CD": {
		"02": "Africa/Kinshasa",
		"05": "Africa/Lubumbashi",
		"06": "Africa/Kinshasa",
		"08": "Africa/Kinshasa",
		"12": "Africa/Lubumbashi",
	},
	"EC": {
		"01": "Pacific/Galapagos",
		"02": "America/Guayaquil",
		"18": "America/Guayaquil",
	},
	"ES": {
		"07": "Europe/Madrid",
		"27": "Europe/Madrid",
		"29": "Europe/Madrid",
		"32": "Europe/Madrid",
		"34": "Europe/Madrid",
		"51": "Africa/Ceuta",
		"53": "Atlantic/Canary",
		"54": "Europe/Madrid",
		"55": "Europe/Madrid",
		"56": "Europe/Madrid",
		"57": "Europe/Madrid",
		"58": "Europe/Madrid",
		"59": "Europe/Madrid",
		"60": "Europe/Madrid",
	},
	"ID": {
		"01": "Asia/Pontianak",
		"02": "Asia/Makassar",
		"03": "Asia/Jakarta",
		"04": "Asia/Jakarta",
		"05": "Asia/Jakarta",
		"06": "Asia/Jakarta",
		"07": "Asia/Jakarta",
		"08": "Asia/Jakarta",
		"09": "Asia/Jayapura",
		"30": "Asia/Jakarta",
	},
	"KZ": {
		"01": "Asia/Almaty",
		"02": "Asia/Almaty",
		"04": "Asia/Aqtobe",
		"05": "Asia/Qyzylorda",
		"06": "Asia/Aqtau",
	},
	"MN": {
		"06": "Asia/Choibalsan",
		"11": "Asia/Ulaanbaatar",
		"17": "Asia/Choibalsan",
		"19": "Asia/Hovd",
	},
	"MX": {
		"01": "America/Mazatlan",
		"02": "America/Tijuana",
		"03": "America/Mazatlan",
		"04": "America/Merida",
		"05": "America/Mexico_City",
		"06": "America/Chihuahua",
		"07": "America/Monterrey",
		"09": "America/Mexico_City",
		"19": "America/Monterrey",
		"23": "America/Cancun",
		"25": "America/Mazatlan",
		"26": "America/Hermosillo",
	},
	"MY": {
		"01": "Asia/Kuala_Lumpur",
		"11": "Asia/Kuching",
		"14": "Asia/Kuala_Lumpur",
		"15": "Asia/Kuching",
		"16": "Asia/Kuching",
	},
	"NZ": {
		"85": "Pacific/Auckland",
		"E7": "Pacific/Auckland",
		"E8": "Pacific/Auckland",
		"F7": "Pacific/Chatham",
	},
	"PT": {
		"02": "Europe/Lisbon",
		"10": "Atlantic/Madeira",
		"14": "Europe/Lisbon",
		"17": "Europe/Lisbon",
		"23": "Atlantic/Azores",
	},
	"RU": {
		"20": "Asia/Irkutsk",
		"23": "Europe/Kaliningrad",
		"42": "Europe/Moscow",
		"47": "Europe/Moscow",
		"48": "Europe/Moscow",
		"53": "Asia/Novosibirsk",
		"59": "Asia/Vladivostok",
		"66": "Europe/Moscow",
		"71": "Asia/Yekaterinburg",
		"91": "Asia/Krasnoyarsk",
	},
	"UA": {
		"01": "Europe/Kiev",
		"11": "Europe/Simferopol",
		"12": "Europe/Zaporozhye",
		"21": "Europe/Uzhgorod",
		"26": "Europe/Zaporozhye",
	},
	"US": {
		"AK": "America/Anchorage",
		"AL": "America/Chicago",
		"AR": "America/Chicago",
		"AZ": "America/Phoenix",
		"CA": "America/Los_Angeles",
		"CO": "America/Denver",
		"CT": "America/New_York",
		"DC": "America/New_York",
		"DE": "America/New_York",
		"FL": "America/New_York",
		"GA": "America/New_York",
		"HI": "Pacific/Honolulu",
		"IA": "America/Chicago",
		"ID": "America/Denver",
		"IL": "America/Chicago",
		"IN": "America/Indianapolis",
		"KS": "America/Chicago",
		"KY": "America/New_York",
		"LA": "America/Chicago",
		"MA": "America/New_York",
		"MD": "America/New_York",
		"ME": "America/New_York",
		"MI": "America/New_York",
		"MN": "America/Chicago",
		"MO": "America/Chicago",
		"MS": "America/Chicago",
		"MT": "America/Denver",
		"NC": "America/New_York",
		"ND": "America/Chicago",
		"NE": "America/Chicago",
		"NH": "America/New_York",
		"NJ": "America/New_York",
		"NM": "America/Denver",
		"NV": "America/Los_Angeles",
		"NY": "America/New_York",
		"OH": "America/New_York",
		"OK": "America/Chicago",
		"OR": "America/Los_Angeles",
		"PA": "America/New_York",
		"RI": "America/New_York",
		"SC": "America/New_York",
		"SD": "America/Chicago",
		"TN": "America/Chicago",
		"TX": "America/Chicago",
		"UT": "America/Denver",
		"VA": "America/New_York",
		"VT": "America/New_York",
		"WA": "America/Los_Angeles",
		"WI": "America/Chicago",
		"WV": "America/New_York",
		"WY": "America/Denver",
	},
	"UZ": {
		"01": "Asia/Tashkent",
		"02": "Asia/Samarkand",
		"13": "Asia/Tashkent",
		"14": "Asia/Tashkent",
		"15": "Asia/Samarkand",
	},
}
