package gate

// Go declarations for the interrupt entry stubs in gate_entries_amd64.s. The
// stubs are never called from Go; the declarations only provide the argument
// metadata the toolchain expects for assembly functions.

func gateEntry0()
func gateEntry1()
func gateEntry2()
func gateEntry3()
func gateEntry4()
func gateEntry5()
func gateEntry6()
func gateEntry7()
func gateEntry8()
func gateEntry9()
func gateEntry10()
func gateEntry11()
func gateEntry12()
func gateEntry13()
func gateEntry14()
func gateEntry15()
func gateEntry16()
func gateEntry17()
func gateEntry18()
func gateEntry19()
func gateEntry20()
func gateEntry21()
func gateEntry22()
func gateEntry23()
func gateEntry24()
func gateEntry25()
func gateEntry26()
func gateEntry27()
func gateEntry28()
func gateEntry29()
func gateEntry30()
func gateEntry31()
func gateEntry32()
func gateEntry33()
func gateEntry34()
func gateEntry35()
func gateEntry36()
func gateEntry37()
func gateEntry38()
func gateEntry39()
func gateEntry40()
func gateEntry41()
func gateEntry42()
func gateEntry43()
func gateEntry44()
func gateEntry45()
func gateEntry46()
func gateEntry47()
func gateEntry48()
func gateEntry49()
func gateEntry50()
func gateEntry51()
func gateEntry52()
func gateEntry53()
func gateEntry54()
func gateEntry55()
func gateEntry56()
func gateEntry57()
func gateEntry58()
func gateEntry59()
func gateEntry60()
func gateEntry61()
func gateEntry62()
func gateEntry63()
func gateEntry64()
func gateEntry65()
func gateEntry66()
func gateEntry67()
func gateEntry68()
func gateEntry69()
func gateEntry70()
func gateEntry71()
func gateEntry72()
func gateEntry73()
func gateEntry74()
func gateEntry75()
func gateEntry76()
func gateEntry77()
func gateEntry78()
func gateEntry79()
func gateEntry80()
func gateEntry81()
func gateEntry82()
func gateEntry83()
func gateEntry84()
func gateEntry85()
func gateEntry86()
func gateEntry87()
func gateEntry88()
func gateEntry89()
func gateEntry90()
func gateEntry91()
func gateEntry92()
func gateEntry93()
func gateEntry94()
func gateEntry95()
func gateEntry96()
func gateEntry97()
func gateEntry98()
func gateEntry99()
func gateEntry100()
func gateEntry101()
func gateEntry102()
func gateEntry103()
func gateEntry104()
func gateEntry105()
func gateEntry106()
func gateEntry107()
func gateEntry108()
func gateEntry109()
func gateEntry110()
func gateEntry111()
func gateEntry112()
func gateEntry113()
func gateEntry114()
func gateEntry115()
func gateEntry116()
func gateEntry117()
func gateEntry118()
func gateEntry119()
func gateEntry120()
func gateEntry121()
func gateEntry122()
func gateEntry123()
func gateEntry124()
func gateEntry125()
func gateEntry126()
func gateEntry127()
func gateEntry128()
func gateEntry129()
func gateEntry130()
func gateEntry131()
func gateEntry132()
func gateEntry133()
func gateEntry134()
func gateEntry135()
func gateEntry136()
func gateEntry137()
func gateEntry138()
func gateEntry139()
func gateEntry140()
func gateEntry141()
func gateEntry142()
func gateEntry143()
func gateEntry144()
func gateEntry145()
func gateEntry146()
func gateEntry147()
func gateEntry148()
func gateEntry149()
func gateEntry150()
func gateEntry151()
func gateEntry152()
func gateEntry153()
func gateEntry154()
func gateEntry155()
func gateEntry156()
func gateEntry157()
func gateEntry158()
func gateEntry159()
func gateEntry160()
func gateEntry161()
func gateEntry162()
func gateEntry163()
func gateEntry164()
func gateEntry165()
func gateEntry166()
func gateEntry167()
func gateEntry168()
func gateEntry169()
func gateEntry170()
func gateEntry171()
func gateEntry172()
func gateEntry173()
func gateEntry174()
func gateEntry175()
func gateEntry176()
func gateEntry177()
func gateEntry178()
func gateEntry179()
func gateEntry180()
func gateEntry181()
func gateEntry182()
func gateEntry183()
func gateEntry184()
func gateEntry185()
func gateEntry186()
func gateEntry187()
func gateEntry188()
func gateEntry189()
func gateEntry190()
func gateEntry191()
func gateEntry192()
func gateEntry193()
func gateEntry194()
func gateEntry195()
func gateEntry196()
func gateEntry197()
func gateEntry198()
func gateEntry199()
func gateEntry200()
func gateEntry201()
func gateEntry202()
func gateEntry203()
func gateEntry204()
func gateEntry205()
func gateEntry206()
func gateEntry207()
func gateEntry208()
func gateEntry209()
func gateEntry210()
func gateEntry211()
func gateEntry212()
func gateEntry213()
func gateEntry214()
func gateEntry215()
func gateEntry216()
func gateEntry217()
func gateEntry218()
func gateEntry219()
func gateEntry220()
func gateEntry221()
func gateEntry222()
func gateEntry223()
func gateEntry224()
func gateEntry225()
func gateEntry226()
func gateEntry227()
func gateEntry228()
func gateEntry229()
func gateEntry230()
func gateEntry231()
func gateEntry232()
func gateEntry233()
func gateEntry234()
func gateEntry235()
func gateEntry236()
func gateEntry237()
func gateEntry238()
func gateEntry239()
func gateEntry240()
func gateEntry241()
func gateEntry242()
func gateEntry243()
func gateEntry244()
func gateEntry245()
func gateEntry246()
func gateEntry247()
func gateEntry248()
func gateEntry249()
func gateEntry250()
func gateEntry251()
func gateEntry252()
func gateEntry253()
func gateEntry254()
func gateEntry255()
