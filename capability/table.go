package capability

// Fixed costs of the globals the resolver prices outside the registry.
const (
	HacknetCost = 4.0
	DOMCost     = 25.0
)

// SingularityMultiplier scales singularity prices by how much of
// Source-File 4 the player owns. Inside BitNode 4 there is no penalty.
func SingularityMultiplier(ctx Context) float64 {
	if ctx.BitNode == 4 {
		return 1
	}
	switch {
	case ctx.SingularityLevel <= 1:
		return 16
	case ctx.SingularityLevel == 2:
		return 4
	}
	return 1
}

func singularity(base float64) Price {
	return Dynamic(func(ctx Context) float64 { return base * SingularityMultiplier(ctx) })
}

// Default returns the standard price table.
func Default() *Registry {
	r := New()
	root := r.Root()

	root.
		Fixed("hack", 0.1).Fixed("hackAnalyze", 1).Fixed("hackAnalyzeSecurity", 1).
		Fixed("hackAnalyzeThreads", 1).Fixed("hackAnalyzeChance", 1).
		Fixed("grow", 0.15).Fixed("growthAnalyze", 1).Fixed("growthAnalyzeSecurity", 1).
		Fixed("weaken", 0.15).Fixed("weakenAnalyze", 1).
		Fixed("sleep", 0).Fixed("asleep", 0).Fixed("share", 2.4).Fixed("getSharePower", 0.2).
		Fixed("print", 0).Fixed("printf", 0).Fixed("tprint", 0).Fixed("tprintf", 0).
		Fixed("scan", 0.2).Fixed("hasTorRouter", 0.05).
		Fixed("nuke", 0.05).Fixed("brutessh", 0.05).Fixed("ftpcrack", 0.05).
		Fixed("relaysmtp", 0.05).Fixed("httpworm", 0.05).Fixed("sqlinject", 0.05).
		Fixed("run", 1).Fixed("exec", 1.3).Fixed("spawn", 2).
		Fixed("kill", 0.5).Fixed("killall", 0.5).Fixed("exit", 0).
		Fixed("scp", 0.6).Fixed("ls", 0.2).Fixed("ps", 0.2).Fixed("getRecentScripts", 0.2).
		Fixed("hasRootAccess", 0.05).Fixed("getHostname", 0.05).Fixed("getHackingLevel", 0.05).
		Fixed("getHackingMultipliers", 4).Fixed("getHacknetMultipliers", 4).
		Fixed("getBitNodeMultipliers", 4).
		Fixed("getServer", 2).Fixed("getServerMoneyAvailable", 0.1).
		Fixed("getServerSecurityLevel", 0.1).Fixed("getServerBaseSecurityLevel", 0.1).
		Fixed("getServerMinSecurityLevel", 0.1).Fixed("getServerRequiredHackingLevel", 0.1).
		Fixed("getServerMaxMoney", 0.1).Fixed("getServerGrowth", 0.1).
		Fixed("getServerNumPortsRequired", 0.1).
		Fixed("getServerMaxRam", 0.05).Fixed("getServerUsedRam", 0.05).
		Fixed("serverExists", 0.1).Fixed("fileExists", 0.1).Fixed("isRunning", 0.1).
		Fixed("getPurchasedServerLimit", 0.05).Fixed("getPurchasedServerMaxRam", 0.05).
		Fixed("getPurchasedServerCost", 0.25).Fixed("getPurchasedServerUpgradeCost", 0.1).
		Fixed("purchaseServer", 2.25).Fixed("upgradePurchasedServer", 0.25).
		Fixed("renamePurchasedServer", 0).Fixed("deleteServer", 2.25).
		Fixed("getPurchasedServers", 1.05).
		Fixed("write", 0).Fixed("tryWritePort", 0).Fixed("read", 0).Fixed("peek", 0).
		Fixed("clear", 0).Fixed("writePort", 0).Fixed("readPort", 0).Fixed("getPortHandle", 0).
		Fixed("rm", 1).Fixed("scriptRunning", 1).Fixed("scriptKill", 1).
		Fixed("getScriptName", 0).Fixed("getScriptRam", 0.1).
		Fixed("getHackTime", 0.05).Fixed("getGrowTime", 0.05).Fixed("getWeakenTime", 0.05).
		Fixed("getTotalScriptIncome", 0.1).Fixed("getScriptIncome", 0.1).
		Fixed("getTotalScriptExpGain", 0.1).Fixed("getScriptExpGain", 0.1).
		Fixed("getRunningScript", 0.3).Fixed("getPlayer", 0.5).
		Fixed("getMoneySources", 1).Fixed("getResetInfo", 1).Fixed("getFavorToDonate", 0.1).
		Fixed("wget", 0).Fixed("ramOverride", 0).Fixed("getFunctionRamCost", 0).
		Fixed("formatNumber", 0).Fixed("formatRam", 0).Fixed("formatPercent", 0)

	// control constructs, free unless overridden by configuration
	root.Fixed("__SPECIAL_referenceIf", 0).Fixed("__SPECIAL_referenceFor", 0).
		Fixed("__SPECIAL_referenceWhile", 0)

	root.Child("stock").
		Fixed("getConstants", 0).Fixed("hasWSEAccount", 0.05).Fixed("hasTIXAPIAccess", 0.05).
		Fixed("has4SData", 0.05).Fixed("has4SDataTIXAPI", 0.05).
		Fixed("getSymbols", 2).Fixed("getPrice", 2).Fixed("getOrganization", 2).
		Fixed("getAskPrice", 2).Fixed("getBidPrice", 2).Fixed("getPosition", 2).
		Fixed("getMaxShares", 2).Fixed("getPurchaseCost", 2).Fixed("getSaleGain", 2).
		Fixed("buyStock", 2.5).Fixed("sellStock", 2.5).Fixed("buyShort", 2.5).Fixed("sellShort", 2.5).
		Fixed("placeOrder", 2.5).Fixed("cancelOrder", 2.5).Fixed("getOrders", 2.5).
		Fixed("getVolatility", 2.5).Fixed("getForecast", 2.5).
		Fixed("purchase4SMarketData", 2.5).Fixed("purchase4SMarketDataTixApi", 2.5).
		Fixed("purchaseWseAccount", 2.5).Fixed("purchaseTixApi", 2.5)

	sing := root.Child("singularity")
	for _, f := range []struct {
		name string
		cost float64
	}{
		{"getOwnedAugmentations", 5}, {"getOwnedSourceFiles", 5},
		{"getAugmentationsFromFaction", 5}, {"getAugmentationCost", 5},
		{"getAugmentationPrereq", 5}, {"getAugmentationPrice", 2.5},
		{"getAugmentationBasePrice", 2.5}, {"getAugmentationRepReq", 2.5},
		{"getAugmentationStats", 5}, {"purchaseAugmentation", 5},
		{"softReset", 5}, {"installAugmentations", 5},
		{"universityCourse", 2}, {"gymWorkout", 2}, {"travelToCity", 2},
		{"goToLocation", 5}, {"purchaseTor", 2}, {"purchaseProgram", 2},
		{"getCurrentServer", 2}, {"connect", 2}, {"manualHack", 2},
		{"installBackdoor", 2}, {"getDarkwebProgramCost", 0.5}, {"getDarkwebPrograms", 0.5},
		{"isFocused", 0.1}, {"setFocus", 0.1}, {"hospitalize", 0.25},
		{"isBusy", 0.5}, {"stopAction", 1}, {"getCurrentWork", 0.5},
		{"upgradeHomeRam", 3}, {"upgradeHomeCores", 3},
		{"getUpgradeHomeRamCost", 1.5}, {"getUpgradeHomeCoresCost", 1.5},
		{"workForCompany", 3}, {"applyToCompany", 3}, {"quitJob", 3},
		{"getCompanyRep", 1}, {"getCompanyFavor", 1}, {"getCompanyFavorGain", 0.75},
		{"checkFactionInvitations", 3}, {"joinFaction", 3}, {"workForFaction", 3},
		{"getFactionRep", 1}, {"getFactionFavor", 1}, {"getFactionFavorGain", 0.75},
		{"donateToFaction", 5}, {"createProgram", 5}, {"commitCrime", 5},
		{"getCrimeChance", 5}, {"getCrimeStats", 5}, {"exportGame", 1},
		{"exportGameBonus", 0.5}, {"destroyW0r1dD43m0n", 32}, {"b1tflum3", 16},
	} {
		sing.Add(f.name, singularity(f.cost))
	}

	root.Child("gang").
		Fixed("createGang", 1).Fixed("inGang", 1).Fixed("getMemberNames", 1).
		Fixed("renameMember", 0).Fixed("getGangInformation", 2).
		Fixed("getOtherGangInformation", 2).Fixed("getMemberInformation", 2).
		Fixed("canRecruitMember", 1).Fixed("getRecruitsAvailable", 1).
		Fixed("recruitMember", 2).Fixed("getTaskNames", 1).Fixed("getTaskStats", 1).
		Fixed("setMemberTask", 2).Fixed("getEquipmentNames", 1).Fixed("getEquipmentCost", 2).
		Fixed("getEquipmentType", 2).Fixed("getEquipmentStats", 2).
		Fixed("purchaseEquipment", 4).Fixed("ascendMember", 4).Fixed("getAscensionResult", 2).
		Fixed("setTerritoryWarfare", 2).Fixed("getChanceToWinClash", 4).
		Fixed("getBonusTime", 0).Fixed("nextUpdate", 1)

	bb := root.Child("bladeburner")
	for _, name := range []string{
		"inBladeburner", "getContractNames", "getOperationNames", "getBlackOpNames",
		"getNextBlackOp", "getBlackOpRank", "getGeneralActionNames", "getSkillNames",
		"startAction", "stopBladeburnerAction", "getCurrentAction", "getActionTime",
		"getActionCurrentTime", "getActionEstimatedSuccessChance", "getActionRepGain",
		"getActionCountRemaining", "getActionMaxLevel", "getActionCurrentLevel",
		"getActionAutolevel", "getActionSuccesses", "setActionAutolevel", "setActionLevel",
		"getRank", "getSkillPoints", "getSkillLevel", "getSkillUpgradeCost", "upgradeSkill",
		"getTeamSize", "setTeamSize", "getCityEstimatedPopulation", "getCityCommunities",
		"getCityChaos", "getCity", "switchCity", "getStamina", "joinBladeburnerFaction",
		"joinBladeburnerDivision", "getBonusTime", "nextUpdate",
	} {
		bb.Fixed(name, 4)
	}

	root.Child("codingcontract").
		Fixed("attempt", 10).Fixed("getContractType", 5).Fixed("getData", 5).
		Fixed("getContract", 15).Fixed("getDescription", 5).Fixed("getNumTriesRemaining", 2).
		Fixed("createDummyContract", 2).Fixed("getContractTypes", 0)

	corp := root.Child("corporation")
	corp.Fixed("hasCorporation", 0).Fixed("createCorporation", 20).Fixed("getCorporation", 10).
		Fixed("getDivision", 10).Fixed("expandIndustry", 20).Fixed("expandCity", 20).
		Fixed("purchaseWarehouse", 20).Fixed("upgradeWarehouse", 20).
		Fixed("sellMaterial", 20).Fixed("sellProduct", 20).Fixed("discontinueProduct", 20).
		Fixed("makeProduct", 20).Fixed("buyMaterial", 20).Fixed("bulkPurchase", 20).
		Fixed("hireEmployee", 20).Fixed("upgradeOfficeSize", 20).Fixed("throwParty", 20).
		Fixed("buyTea", 20).Fixed("hireAdVert", 20).Fixed("research", 20).
		Fixed("getOffice", 10).Fixed("getWarehouse", 10).Fixed("getMaterial", 10).
		Fixed("getProduct", 10).Fixed("issueDividends", 20).Fixed("goPublic", 20).
		Fixed("bribe", 20).Fixed("levelUpgrade", 20).Fixed("unlockUpgrade", 20)

	sleeve := root.Child("sleeve")
	for _, name := range []string{
		"getNumSleeves", "setToIdle", "setToShockRecovery", "setToSynchronize",
		"setToCommitCrime", "setToUniversityCourse", "travel", "setToCompanyWork",
		"setToFactionWork", "setToGymWorkout", "getSleeve", "getTask",
		"getSleeveAugmentations", "getSleevePurchasableAugs", "purchaseSleeveAug",
		"setToBladeburnerAction",
	} {
		sleeve.Fixed(name, 4)
	}

	root.Child("stanek").
		Fixed("giftWidth", 0.4).Fixed("giftHeight", 0.4).Fixed("chargeFragment", 0.4).
		Fixed("fragmentDefinitions", 0).Fixed("activeFragments", 5).Fixed("clearGift", 0).
		Fixed("canPlaceFragment", 0.5).Fixed("placeFragment", 5).Fixed("getFragment", 2).
		Fixed("removeFragment", 0.15).Fixed("acceptGift", 2)

	root.Child("infiltration").
		Fixed("getPossibleLocations", 5).Fixed("getInfiltration", 15)

	root.Child("ui").
		Fixed("getTheme", 0).Fixed("setTheme", 0).Fixed("resetTheme", 0).
		Fixed("getStyles", 0).Fixed("setStyles", 0).Fixed("resetStyles", 0).
		Fixed("getGameInfo", 0).Fixed("clearTerminal", 0).Fixed("windowSize", 0)

	root.Child("grafting").
		Fixed("getAugmentationGraftPrice", 3.75).Fixed("getAugmentationGraftTime", 3.75).
		Fixed("getGraftableAugmentations", 5).Fixed("graftAugmentation", 7.5).
		Fixed("waitForOngoingGrafting", 1)

	formulas := root.Child("formulas")
	formulas.Child("hacking").
		Fixed("hackChance", 0).Fixed("hackExp", 0).Fixed("hackPercent", 0).
		Fixed("growPercent", 0).Fixed("growThreads", 0).Fixed("hackTime", 0).
		Fixed("growTime", 0).Fixed("weakenTime", 0)
	formulas.Child("hacknetNodes").
		Fixed("moneyGainRate", 0).Fixed("levelUpgradeCost", 0).Fixed("ramUpgradeCost", 0).
		Fixed("coreUpgradeCost", 0).Fixed("hacknetNodeCost", 0)

	goNS := root.Child("go")
	goNS.Fixed("makeMove", 4).Fixed("passTurn", 0).Fixed("getBoardState", 4).
		Fixed("getMoveHistory", 0).Fixed("getCurrentPlayer", 0).Fixed("getGameState", 0).
		Fixed("getOpponent", 0).Fixed("opponentNextTurn", 0).Fixed("resetBoardState", 0)
	goNS.Child("analysis").
		Fixed("getValidMoves", 8).Fixed("getChains", 16).Fixed("getLiberties", 16).
		Fixed("getControlledEmptyNodes", 16).Fixed("getStats", 0)
	goNS.Child("cheat").
		Fixed("getCheatSuccessChance", 1).Fixed("getCheatCount", 1).
		Fixed("removeRouter", 8).Fixed("playTwoMoves", 8).
		Fixed("repairOfflineNode", 8).Fixed("destroyNode", 8)

	return r
}
