package gbz80

// Registers maps the hardware register addresses of the I/O page to their
// conventional names. The names match the hardware.inc constants that the
// generated output includes.
var Registers = map[uint16]string{
	0xff00: "rP1",
	0xff01: "rSB",
	0xff02: "rSC",
	0xff04: "rDIV",
	0xff05: "rTIMA",
	0xff06: "rTMA",
	0xff07: "rTAC",
	0xff0f: "rIF",
	0xff10: "rNR10",
	0xff11: "rNR11",
	0xff12: "rNR12",
	0xff13: "rNR13",
	0xff14: "rNR14",
	0xff16: "rNR21",
	0xff17: "rNR22",
	0xff18: "rNR23",
	0xff19: "rNR24",
	0xff1a: "rNR30",
	0xff1b: "rNR31",
	0xff1c: "rNR32",
	0xff1d: "rNR33",
	0xff1e: "rNR34",
	0xff20: "rNR41",
	0xff21: "rNR42",
	0xff22: "rNR43",
	0xff23: "rNR44",
	0xff24: "rNR50",
	0xff25: "rNR51",
	0xff26: "rNR52",
	0xff40: "rLCDC",
	0xff41: "rSTAT",
	0xff42: "rSCY",
	0xff43: "rSCX",
	0xff44: "rLY",
	0xff45: "rLYC",
	0xff46: "rDMA",
	0xff47: "rBGP",
	0xff48: "rOBP0",
	0xff49: "rOBP1",
	0xff4a: "rWY",
	0xff4b: "rWX",
	0xff4d: "rKEY1",
	0xff4f: "rVBK",
	0xff51: "rHDMA1",
	0xff52: "rHDMA2",
	0xff53: "rHDMA3",
	0xff54: "rHDMA4",
	0xff55: "rHDMA5",
	0xff56: "rRP",
	0xff68: "rBCPS",
	0xff69: "rBCPD",
	0xff6a: "rOCPS",
	0xff6b: "rOCPD",
	0xff70: "rSVBK",
	0xffff: "rIE",
}
